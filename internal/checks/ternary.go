package checks

import (
	"bslcheck/internal/rules"
	"bslcheck/internal/token"
)

func ternaryOperatorUsage() *rules.Descriptor {
	return &rules.Descriptor{
		Code:         "TernaryOperatorUsage",
		Name:         "Использование тернарного оператора",
		Message:      "Используйте конструкцию Если вместо тернарного оператора",
		Type:         rules.TypeCodeSmell,
		Severity:     rules.SeverityMinor,
		Tags:         []rules.Tag{rules.TagBrainOverload},
		MinutesToFix: 3,
		New:          func() rules.Rule { return &ternary{} },
	}
}

type ternary struct{}

func (r *ternary) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	toks := tree.File.Tokens
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Kind != token.Question || toks[i+1].Kind != token.LParen {
			continue
		}
		sp := toks[i].Span
		if end := matchParen(toks, i+1); end > 0 {
			sp = sp.Cover(toks[end].Span)
		}
		p.Reportf(sp)
	}
	return nil
}
