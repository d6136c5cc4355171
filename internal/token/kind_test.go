package token_test

import (
	"testing"

	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.NumberLit, token.StringLit, token.DateLit, token.KwTrue, token.KwUndefined}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwIf, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestKindClasses(t *testing.T) {
	if !tok(token.Question).IsPunctOrOp() || tok(token.Ident).IsPunctOrOp() {
		t.Fatalf("IsPunctOrOp mismatch")
	}
	if !token.KwNull.IsKeyword() || token.NumberLit.IsKeyword() {
		t.Fatalf("IsKeyword mismatch")
	}
	if !token.PreprocEndIf.IsPreproc() || token.Annotation.IsPreproc() {
		t.Fatalf("IsPreproc mismatch")
	}
	if token.KwReturn.String() != "Возврат" || token.NotEq.String() != "<>" {
		t.Fatalf("String mismatch: %s %s", token.KwReturn, token.NotEq)
	}
}
