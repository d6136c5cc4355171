package parser_test

import (
	"testing"

	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/parser"
	"bslcheck/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Builder, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.bsl", []byte(input))
	bag := diag.NewBag(100)
	res := parser.ParseFile(fs.Get(fileID), parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return res.Tree, bag
}

func mustParse(t *testing.T, input string) *ast.Builder {
	t.Helper()
	tree, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	return tree
}

func onlyMethod(t *testing.T, tree *ast.Builder) *ast.Method {
	t.Helper()
	methods := tree.Methods()
	if len(methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(methods))
	}
	return methods[0]
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
