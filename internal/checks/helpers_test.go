package checks

import (
	"context"
	"strings"
	"testing"

	"bslcheck/internal/diag"
	"bslcheck/internal/fix"
	"bslcheck/internal/metadata"
	"bslcheck/internal/parser"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
	"bslcheck/internal/symbols"
)

type fixture struct {
	fs  *source.FileSet
	doc *rules.Document
	act *rules.Active
}

// parseDoc builds a document over src as a common module.
func parseDoc(t *testing.T, src string) (*source.FileSet, *rules.Document) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bsl", []byte(src))
	bag := diag.NewBag(100)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	doc := &rules.Document{
		File: fs.Get(id),
		Tree: symbols.Build("test", res.Tree),
		Meta: metadata.Context{Path: "test.bsl", Kind: metadata.KindCommonModule, File: metadata.FileBSL},
	}
	return fs, doc
}

// runRule runs one built-in rule with parameter overrides.
func runRule(t *testing.T, code, src string, params map[string]any) (fixture, []diag.Diagnostic) {
	t.Helper()
	fs, doc := parseDoc(t, src)
	a, err := NewRegistry().Instantiate(code)
	if err != nil {
		t.Fatalf("instantiate %s: %v", code, err)
	}
	if params != nil {
		cfg, bad := rules.ResolveConfig(a.Descriptor.Params, params)
		if len(bad) > 0 {
			t.Fatalf("bad params %v", bad)
		}
		a.Config = cfg
	}
	p := rules.NewPass(context.Background(), a, doc, nil)
	if err := a.Rule.Run(p); err != nil {
		t.Fatalf("run %s: %v", code, err)
	}
	return fixture{fs: fs, doc: doc, act: a}, p.Diagnostics()
}

func (f fixture) text(d diag.Diagnostic) string { return f.doc.Text(d.Primary) }

// fixAll applies the rule's fixes for ds and returns the resulting text.
func (f fixture) fixAll(t *testing.T, ds []diag.Diagnostic) string {
	t.Helper()
	qf, ok := f.act.Rule.(rules.QuickFixer)
	if !ok {
		t.Fatalf("%s has no quick fixes", f.act.Descriptor.Code)
	}
	fixes := qf.QuickFixes(&rules.FixRequest{Doc: f.doc, Diagnostics: ds, All: ds, Config: f.act.Config})
	if len(fixes) != len(ds) {
		t.Fatalf("expected %d fixes, got %d", len(ds), len(fixes))
	}
	res, err := fix.Apply(f.fs, fixes, fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return string(res.Buffers[f.doc.File.ID])
}

func proc(body string) string {
	return "Процедура П()\n" + body + "\nКонецПроцедуры\n"
}

func messages(ds []diag.Diagnostic) string {
	var out []string
	for _, d := range ds {
		out = append(out, d.Message)
	}
	return strings.Join(out, "; ")
}
