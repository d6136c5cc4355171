package checks

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/config"
	"bslcheck/internal/metadata"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
)

func codeOutOfRegion() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "CodeOutOfRegion",
		Name:               "Код расположен вне области",
		Message:            "Код следует располагать внутри области",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityInfo,
		Scope:              rules.ScopeBSL,
		MinCompat:          metadata.MustVersion("8.3.1"),
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard},
		MinutesToFix:       1,
		Applicable: func(ctx metadata.Context, _ *config.Settings) bool {
			return ctx.Kind != metadata.KindUnknown
		},
		New: func() rules.Rule { return &outOfRegion{} },
	}
}

type outOfRegion struct{}

func (r *outOfRegion) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	f := tree.File
	var spans []source.Span
	var run source.Span
	flush := func() {
		if !run.Empty() {
			spans = append(spans, run)
		}
		run = source.Span{}
	}
	for _, id := range f.Items {
		it := tree.Items.Get(id)
		sp, code := itemAnchor(tree, it)
		if !code || inRegion(f, it.Span) {
			flush()
			continue
		}
		if it.Kind != ast.ItemStmt {
			flush()
			spans = append(spans, sp)
			continue
		}
		if run.Empty() {
			run = sp
		} else {
			run = run.Cover(sp)
		}
	}
	flush()
	if len(spans) == 0 {
		return nil
	}
	if len(f.Regions) > 0 {
		for _, sp := range spans {
			p.Reportf(sp)
		}
		return nil
	}
	// областей нет вовсе: одно замечание на модуль
	d := p.Diagnostic(spans[0])
	for _, sp := range spans {
		d = d.WithNote(sp, "вне области")
	}
	p.Report(d)
	return nil
}

// itemAnchor returns the span to report for an item; false for items that
// are not code (preprocessor markers).
func itemAnchor(tree *ast.Builder, it *ast.Item) (source.Span, bool) {
	switch it.Kind {
	case ast.ItemMethod:
		m := tree.Items.Method(it.Method)
		if m == nil {
			return it.Span, true
		}
		return m.NameSpan, true
	case ast.ItemStmt:
		st := tree.Stmts.Get(it.Stmt)
		if st == nil || st.Kind == ast.StmtPreproc {
			return source.Span{}, false
		}
		return st.Span, true
	}
	return it.Span, true
}

func inRegion(f *ast.File, sp source.Span) bool {
	for _, reg := range f.Regions {
		if reg.Span.ContainsSpan(sp) {
			return true
		}
	}
	return false
}
