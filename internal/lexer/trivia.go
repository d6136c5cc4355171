package lexer

import (
	"bslcheck/internal/token"
)

func isInlineSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\f', '\v':
		return true
	}
	return false
}

func isNewline(b byte) bool { return b == '\n' }

func notNewline(b byte) bool { return b != '\n' }

// collectLeadingTrivia gathers trivia before the next significant token into
// lx.hold. Пробелы (включая NBSP) и подряд идущие '\n' сливаются в один
// элемент; каждый "//" комментарий копируется ещё и в lx.comments.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		var kind token.TriviaKind
		switch {
		case lx.skipSpaces():
			kind = token.TriviaSpace
		case lx.cursor.SkipWhile(isNewline):
			kind = token.TriviaNewline
			lx.lineCode = false
		case lx.cursor.HasPrefix("//"):
			lx.cursor.SkipWhile(notNewline)
			kind = token.TriviaLineComment
		default:
			return
		}
		tr := token.Trivia{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.TextFrom(start)}
		lx.hold = append(lx.hold, tr)
		if kind == token.TriviaLineComment {
			lx.comments = append(lx.comments, token.Comment{Span: tr.Span, Text: tr.Text, Trailing: lx.lineCode})
		}
	}
}

// skipSpaces consumes blanks other than '\n', U+00A0 included.
func (lx *Lexer) skipSpaces() bool {
	moved := false
	for {
		switch {
		case lx.cursor.SkipWhile(isInlineSpace):
		case lx.cursor.HasPrefix("\u00a0"):
			lx.cursor.Skip(2)
		default:
			return moved
		}
		moved = true
	}
}
