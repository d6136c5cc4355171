package checks

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/diag"
	"bslcheck/internal/fix"
	"bslcheck/internal/rules"
)

func emptyRegion() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "EmptyRegion",
		Name:               "Область не должна быть пустой",
		Message:            "Область \"%s\" не содержит кода",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityInfo,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard},
		MinutesToFix:       1,
		New:                func() rules.Rule { return &emptyRegionRule{} },
	}
}

type emptyRegionRule struct{}

func (r *emptyRegionRule) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	f := tree.File
	for i := range f.Regions {
		reg := &f.Regions[i]
		if !reg.Closed || !regionEmpty(f, i) {
			continue
		}
		p.Report(p.Diagnostic(reg.Open, reg.Name).WithTag(diag.TagUnnecessary))
	}
	return nil
}

// regionEmpty: между маркерами области нет ничего, кроме маркеров вложенных областей.
func regionEmpty(f *ast.File, idx int) bool {
	reg := f.Regions[idx]
	for _, t := range f.Tokens {
		if t.Span.Start < reg.Open.End || t.Span.End > reg.Close.Start {
			continue
		}
		inMarker := false
		for _, nested := range f.Regions {
			if nested.Open.ContainsSpan(t.Span) || nested.Close.ContainsSpan(t.Span) {
				inMarker = true
				break
			}
		}
		if !inMarker {
			return false
		}
	}
	return true
}

func (r *emptyRegionRule) QuickFixes(req *rules.FixRequest) []diag.Fix {
	tree := req.Doc.AST()
	if tree == nil {
		return nil
	}
	var out []diag.Fix
	for _, d := range req.Diagnostics {
		for _, reg := range tree.File.Regions {
			if reg.Open != d.Primary {
				continue
			}
			sp := reg.Open.Cover(reg.Close)
			out = append(out, fix.DeleteSpan("Удалить пустую область", sp, req.Doc.Text(sp),
				fix.Resolving(d), fix.WithID(fix.MakeFixID(d.Code, d.Primary))))
		}
	}
	return out
}
