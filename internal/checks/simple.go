package checks

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/rules"
)

func usingGoto() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "UsingGoto",
		Name:               "Использование оператора Перейти",
		Message:            "Не используйте оператор Перейти",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityCritical,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard, rules.TagBadPractice},
		MinutesToFix:       5,
		New:                func() rules.Rule { return &gotoRule{} },
	}
}

type gotoRule struct{}

func (r *gotoRule) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	walkAll(tree, func(_ ast.StmtID, st *ast.Stmt) bool {
		if st.Kind == ast.StmtGoto {
			p.Reportf(st.Span)
		}
		return true
	})
	return nil
}

func procedureReturnsValue() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "ProcedureReturnsValue",
		Name:               "Процедура не должна возвращать значение",
		Message:            "Процедура не может возвращать значение",
		Type:               rules.TypeError,
		Severity:           rules.SeverityBlocker,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagError},
		MinutesToFix:       5,
		New:                func() rules.Rule { return &procReturns{} },
	}
}

type procReturns struct{}

func (r *procReturns) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	for _, m := range tree.Methods() {
		if m.IsFunction {
			continue
		}
		tree.WalkStmts(m.Body, func(_ ast.StmtID, st *ast.Stmt) bool {
			if st.Kind == ast.StmtReturn && !st.Expr.Empty() {
				p.Reportf(st.Span)
			}
			return true
		})
	}
	return nil
}

func exportVariables() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "ExportVariables",
		Name:               "Запрет экспортных глобальных переменных модуля",
		Message:            "Не используйте экспортные переменные модуля",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMajor,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagStandard, rules.TagDesign, rules.TagUnpredictable},
		MinutesToFix:       5,
		New:                func() rules.Rule { return &exportVars{} },
	}
}

type exportVars struct{}

func (r *exportVars) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	for _, id := range tree.File.Items {
		it := tree.Items.Get(id)
		if it == nil || it.Kind != ast.ItemVars {
			continue
		}
		for _, vid := range it.Vars {
			if v := tree.Items.Var(vid); v != nil && v.Export {
				p.Reportf(v.Span)
			}
		}
	}
	return nil
}
