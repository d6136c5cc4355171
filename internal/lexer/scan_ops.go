package lexer

import (
	"bslcheck/internal/diag"
	"bslcheck/internal/token"
)

// двухсимвольные операторы проверяются раньше односимвольных
var pairOps = [...]struct {
	text string
	kind token.Kind
}{
	{"<>", token.NotEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
}

var singleOps = [256]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'=': token.Assign, '<': token.Lt, '>': token.Gt,
	'(': token.LParen, ')': token.RParen, '[': token.LBracket, ']': token.RBracket,
	',': token.Comma, ';': token.Semicolon, '.': token.Dot, ':': token.Colon, '?': token.Question,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	kind := token.Invalid
	for _, op := range pairOps {
		if lx.cursor.HasPrefix(op.text) {
			lx.cursor.Skip(len(op.text))
			kind = op.kind
			break
		}
	}
	if kind == token.Invalid {
		kind = singleOps[lx.cursor.Bump()]
	}

	tok := token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.TextFrom(start)}
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	}
	return tok
}
