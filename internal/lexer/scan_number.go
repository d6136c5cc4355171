package lexer

import (
	"bslcheck/internal/diag"
	"bslcheck/internal/token"
)

// Числа: 123, 1.5. Экспоненты и другие основания в BSL не поддерживаются.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	// 12Абв: число, прилипшее к идентификатору
	if r, sz := lx.peekRune(); sz > 0 && isIdentStartRune(r) {
		lx.scanIdentTail()
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "malformed number")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
	}
	return token.Token{Kind: token.NumberLit, Span: sp, Text: lx.file.Text(sp)}
}

// scanDate читает литерал даты '20240131' или '2024-01-31 12:00:00'.
// Допустимы 8, 12 или 14 цифр; разделители игнорируются.
func (lx *Lexer) scanDate() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''
	digits := 0
	bad := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\'' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			text := lx.file.Text(sp)
			if bad || (digits != 8 && digits != 12 && digits != 14) {
				lx.errLex(diag.LexBadDate, sp, "malformed date literal")
			}
			return token.Token{Kind: token.DateLit, Span: sp, Text: text}
		}
		if b == '\n' {
			break
		}
		switch {
		case isDec(b):
			digits++
		case b == '.' || b == '-' || b == ':' || b == ' ' || b == '/':
		default:
			bad = true
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadDate, sp, "unterminated date literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
}
