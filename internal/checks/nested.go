package checks

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/rules"
)

func nestedStatements() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "NestedStatements",
		Name:               "Управляющие конструкции не должны быть вложены слишком глубоко",
		Message:            "Реорганизуйте код, чтобы уменьшить вложенность конструкций (допустимо %d)",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityCritical,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagBadPractice, rules.TagBrainOverload},
		MinutesToFix:       10,
		Params: []rules.Param{
			{Name: "maxAllowedLevel", Type: rules.ParamInt, Default: 4, Description: "Максимальный уровень вложенности конструкций"},
		},
		New: func() rules.Rule { return &nested{} },
	}
}

type nested struct {
	tree  *ast.Builder
	max   int
	stack []*ast.Stmt
}

func (r *nested) Run(p *rules.Pass) error {
	r.tree = p.AST()
	if r.tree == nil {
		return nil
	}
	r.max = p.Config.Int("maxAllowedLevel")
	for _, b := range bodies(r.tree) {
		r.block(p, b.block)
	}
	return nil
}

func (r *nested) block(p *rules.Pass, b ast.Block) {
	for _, id := range b.Stmts {
		st := r.tree.Stmts.Get(id)
		if st == nil {
			continue
		}
		children := r.tree.Stmts.Children(id)
		if len(children) == 0 {
			continue
		}
		r.stack = append(r.stack, st)
		if len(r.stack) > r.max {
			// вложенные глубже конструкции не сообщаются повторно
			d := p.Diagnostic(st.Keyword, r.max)
			for _, outer := range r.stack[:len(r.stack)-1] {
				d = d.WithNote(outer.Keyword, "+1")
			}
			p.Report(d)
		} else {
			for _, child := range children {
				r.block(p, child)
			}
		}
		r.stack = r.stack[:len(r.stack)-1]
	}
}
