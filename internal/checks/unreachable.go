package checks

import (
	"bslcheck/internal/diag"
	"bslcheck/internal/flow"
	"bslcheck/internal/rules"
)

func unreachableCode() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "UnreachableCode",
		Name:               "Недостижимый код",
		Message:            "Недостижимый код",
		Type:               rules.TypeError,
		Severity:           rules.SeverityMinor,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagDesign, rules.TagSuspicious},
		MinutesToFix:       10,
		New:                func() rules.Rule { return &unreachable{} },
	}
}

type unreachable struct{}

func (r *unreachable) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	a := flow.New(tree, flow.Options{})
	for _, b := range bodies(tree) {
		for _, sp := range a.UnreachableIn(b.block) {
			p.Report(p.Diagnostic(sp).WithTag(diag.TagUnnecessary))
		}
	}
	return nil
}
