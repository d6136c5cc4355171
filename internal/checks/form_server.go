package checks

import (
	"bslcheck/internal/metadata"
	"bslcheck/internal/rules"
)

func serverSideExportFormMethod() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "ServerSideExportFormMethod",
		Name:               "Запрет экспортных серверных методов в модуле формы",
		Message:            "Серверный метод формы \"%s\" не должен быть экспортным",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMajor,
		Scope:              rules.ScopeBSL,
		ModuleKinds:        []metadata.ModuleKind{metadata.KindFormModule},
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard, rules.TagUnpredictable, rules.TagDesign},
		MinutesToFix:       5,
		New:                func() rules.Rule { return &formServerExport{} },
	}
}

type formServerExport struct{}

func (r *formServerExport) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	for _, m := range tree.Methods() {
		if !m.Export {
			continue
		}
		for _, d := range m.Directives() {
			if d.IsServer() {
				p.Reportf(m.NameSpan, m.Name)
				break
			}
		}
	}
	return nil
}
