package lsp

import (
	"testing"

	"go.lsp.dev/protocol"

	"bslcheck/internal/diag"
)

func TestPathFromURI(t *testing.T) {
	cases := []struct {
		in   protocol.DocumentURI
		want string
		ok   bool
	}{
		{"file:///tmp/src/Module.bsl", "/tmp/src/Module.bsl", true},
		{"file:///tmp/%D0%9C%D0%BE%D0%B4%D1%83%D0%BB%D1%8C.bsl", "/tmp/Модуль.bsl", true},
		{"untitled:Untitled-1", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := pathFromURI(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("pathFromURI(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestKindAllowed(t *testing.T) {
	if !kindAllowed(diag.FixKindQuickFix, nil) {
		t.Fatalf("empty filter must admit everything")
	}
	if !kindAllowed(diag.FixKindFixAll, []protocol.CodeActionKind{protocol.Source}) {
		t.Fatalf("source must admit source.fixAll")
	}
	if kindAllowed(diag.FixKindQuickFix, []protocol.CodeActionKind{protocol.RefactorRewrite}) {
		t.Fatalf("refactor.rewrite must not admit quickfix")
	}
	if kindAllowed(diag.FixKindRefactorRewrite, []protocol.CodeActionKind{"refactor.re"}) {
		t.Fatalf("prefix must stop at a dot")
	}
}
