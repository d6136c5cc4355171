package lexer

import (
	"unicode"
	"unicode/utf8"
)

const utf8RuneSelf = utf8.RuneSelf

// peekRune decodes the rune under the cursor; size 0 at the end.
func (lx *Lexer) peekRune() (r rune, size int) {
	rest := lx.cursor.Rest()
	switch {
	case len(rest) == 0:
		return utf8.RuneError, 0
	case rest[0] < utf8.RuneSelf:
		return rune(rest[0]), 1
	}
	return utf8.DecodeRune(rest)
}

func (lx *Lexer) bumpRune() {
	_, n := lx.peekRune()
	lx.cursor.Skip(n)
}

// Идентификаторы 1С: буквы любого алфавита, цифры и '_'.
func isIdentStartByte(b byte) bool {
	return b == '_' || ('a' <= b|0x20 && b|0x20 <= 'z')
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

func isIdentStartRune(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentContinueRune(r rune) bool { return isIdentStartRune(r) || unicode.IsDigit(r) }

func isDec(b byte) bool { return '0' <= b && b <= '9' }

// scanIdentTail consumes one identifier; false when none starts here.
func (lx *Lexer) scanIdentTail() bool {
	if r, n := lx.peekRune(); n == 0 || !isIdentStartRune(r) {
		return false
	}
	lx.bumpRune()
	for {
		lx.cursor.SkipWhile(isIdentContinueByte)
		if lx.cursor.Peek() < utf8RuneSelf {
			return true
		}
		if r, n := lx.peekRune(); n == 0 || !isIdentContinueRune(r) {
			return true
		}
		lx.bumpRune()
	}
}
