package token

import (
	"slices"

	"bslcheck/internal/source"
)

// Token is one significant lexeme. Leading holds the trivia in front of it:
// пробелы, переводы строк и комментарии до токена.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

var literalKinds = []Kind{NumberLit, StringLit, DateLit, KwTrue, KwFalse, KwUndefined, KwNull}

// IsLiteral: числа, строки, даты и Истина/Ложь/Неопределено/NULL.
func (t Token) IsLiteral() bool { return slices.Contains(literalKinds, t.Kind) }

// IsPunctOrOp covers the operator and punctuation block of Kind.
func (t Token) IsPunctOrOp() bool { return Plus <= t.Kind && t.Kind <= Question }

func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// Is reports whether the token has one of kinds.
func (t Token) Is(kinds ...Kind) bool { return slices.Contains(kinds, t.Kind) }
