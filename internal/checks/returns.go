package checks

import (
	"strings"
	"unicode/utf8"

	"bslcheck/internal/ast"
	"bslcheck/internal/rules"
)

func tooManyReturns() *rules.Descriptor {
	return &rules.Descriptor{
		Code:         "TooManyReturns",
		Name:         "Метод не должен содержать много возвратов",
		Message:      "Метод содержит %d операторов Возврат, допустимо %d",
		Type:         rules.TypeCodeSmell,
		Severity:     rules.SeverityMinor,
		Tags:         []rules.Tag{rules.TagBrainOverload},
		MinutesToFix: 20,
		Params: []rules.Param{
			{Name: "maxReturnsCount", Type: rules.ParamInt, Default: 3, Description: "Допустимое количество возвратов"},
		},
		New: func() rules.Rule { return &manyReturns{} },
	}
}

const returnNoteWidth = 20

type manyReturns struct{}

func (r *manyReturns) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	limit := p.Config.Int("maxReturnsCount")
	for _, m := range tree.Methods() {
		var returns []*ast.Stmt
		tree.WalkStmts(m.Body, func(_ ast.StmtID, st *ast.Stmt) bool {
			if st.Kind == ast.StmtReturn {
				returns = append(returns, st)
			}
			return true
		})
		if len(returns) <= limit {
			continue
		}
		d := p.Diagnostic(m.NameSpan, len(returns), limit)
		for _, st := range returns {
			d = d.WithNote(st.Span, returnNote(p.Doc.Text(st.Span)))
		}
		p.Report(d)
	}
	return nil
}

func returnNote(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "+1"
	}
	if utf8.RuneCountInString(text) <= returnNoteWidth {
		return text
	}
	return string([]rune(text)[:returnNoteWidth]) + "..."
}
