package lexer

import (
	"bslcheck/internal/diag"
	"bslcheck/internal/token"
)

// scanString читает "..." с экранированием "" и многострочным продолжением:
//
//	Текст = "первая
//	|вторая";
//
// Между строками продолжения допускаются пустые строки и строки-комментарии.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			if lx.cursor.Peek() == '"' { // ""
				lx.cursor.Bump()
				continue
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.file.Text(sp)}
		}
		if b == '\n' {
			if lx.continueString() {
				continue
			}
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
}

// continueString пытается перейти на строку продолжения '|'.
// При неудаче курсор остаётся на переводе строки.
func (lx *Lexer) continueString() bool {
	mark := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '\n' || b == ' ' || b == '\t' || b == '\r':
			lx.cursor.Bump()
		case b == '|':
			lx.cursor.Bump()
			return true
		case b == '/':
			if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '/' && b1 == '/' {
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
				continue
			}
			lx.cursor.Reset(mark)
			return false
		default:
			lx.cursor.Reset(mark)
			return false
		}
	}
	lx.cursor.Reset(mark)
	return false
}
