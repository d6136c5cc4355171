package checks

import (
	"bslcheck/internal/diag"
	"bslcheck/internal/fix"
	"bslcheck/internal/rules"
	"bslcheck/internal/token"
)

func canonicalSpellingKeywords() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "CanonicalSpellingKeywords",
		Name:               "Каноническое написание ключевых слов",
		Message:            "Неканоническое написание ключевого слова \"%s\"",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityInfo,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard},
		MinutesToFix:       1,
		New:                func() rules.Rule { return &canonical{} },
	}
}

type canonical struct{}

func (r *canonical) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	for _, t := range tree.File.Tokens {
		if t.Kind.IsKeyword() && !token.IsCanonical(t.Kind, t.Text) {
			p.Reportf(t.Span, t.Text)
		}
	}
	return nil
}

func (r *canonical) QuickFixes(req *rules.FixRequest) []diag.Fix {
	tree := req.Doc.AST()
	if tree == nil {
		return nil
	}
	var out []diag.Fix
	for _, d := range req.Diagnostics {
		for _, t := range tokensIn(tree.File, d.Primary) {
			if t.Span != d.Primary || !t.Kind.IsKeyword() {
				continue
			}
			want := token.CanonicalSpelling(t.Kind, t.Text)
			if want == "" || want == t.Text {
				continue
			}
			out = append(out, fix.ReplaceSpan("Заменить на "+want, t.Span, want, t.Text,
				fix.Resolving(d), fix.WithID(fix.MakeFixID(d.Code, d.Primary)), fix.Preferred()))
		}
	}
	return out
}
