package checks

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/flow"
	"bslcheck/internal/rules"
)

func allFunctionPathMustHaveReturn() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "AllFunctionPathMustHaveReturn",
		Name:               "Все возможные пути выполнения функции должны содержать оператор Возврат",
		Message:            "Не все пути выполнения функции содержат оператор Возврат",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMajor,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagUnpredictable, rules.TagBadPractice, rules.TagSuspicious},
		MinutesToFix:       1,
		Params: []rules.Param{
			{Name: "loopsExecutedAtLeastOnce", Type: rules.ParamBool, Default: true, Description: "Считать, что циклы выполняются хотя бы один раз"},
			{Name: "ignoreMissingElseOnExit", Type: rules.ParamBool, Default: false, Description: "Не учитывать отсутствие ветки Иначе"},
		},
		New: func() rules.Rule { return &allPathsReturn{} },
	}
}

type allPathsReturn struct{}

func (r *allPathsReturn) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	var analyzer *flow.Analyzer
	for _, m := range tree.Methods() {
		// функции без КонецФункции и без единого Возврат разбирают другие правила
		if !m.IsFunction || m.End.Empty() || !containsReturn(tree, m.Body) {
			continue
		}
		if analyzer == nil {
			analyzer = flow.New(tree, flow.Options{
				LoopsExecutedAtLeastOnce: p.Config.Bool("loopsExecutedAtLeastOnce"),
				IgnoreMissingElse:        p.Config.Bool("ignoreMissingElseOnExit"),
				SplicePreprocessor:       true,
				Exit:                     flow.ValueExit,
			})
		}
		res := analyzer.Check(m.Body)
		if res.Satisfied {
			continue
		}
		d := p.Diagnostic(m.NameSpan)
		for _, l := range res.Leaks {
			d = d.WithNote(l.Span, leakMessage(l.Reason))
		}
		p.Report(d)
	}
	return nil
}

func containsReturn(tree *ast.Builder, b ast.Block) bool {
	found := false
	tree.WalkStmts(b, func(_ ast.StmtID, st *ast.Stmt) bool {
		if st.Kind == ast.StmtReturn {
			found = true
		}
		return !found
	})
	return found
}

func leakMessage(r flow.LeakReason) string {
	switch r {
	case flow.LeakMissingElse:
		return "нет ветки Иначе"
	case flow.LeakPreprocMissingElse:
		return "нет ветки #Иначе"
	case flow.LeakLoop:
		return "цикл может не выполниться"
	case flow.LeakExit:
		return "Возврат без значения"
	case flow.LeakMalformed:
		return "не удалось разобрать код"
	default:
		return "выполнение доходит до конца без Возврат"
	}
}
