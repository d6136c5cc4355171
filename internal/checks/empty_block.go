package checks

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
)

func emptyCodeBlock() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "EmptyCodeBlock",
		Name:               "Пустой блок кода",
		Message:            "Пустой блок кода",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMajor,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagBadPractice, rules.TagSuspicious},
		MinutesToFix:       5,
		Params: []rules.Param{
			{Name: "commentAsCode", Type: rules.ParamBool, Default: false, Description: "Считать комментарий в блоке кодом"},
		},
		New: func() rules.Rule { return &emptyBlock{} },
	}
}

type emptyBlock struct {
	file         *ast.File
	commentsCode bool
}

func (r *emptyBlock) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	r.file = tree.File
	r.commentsCode = p.Config.Bool("commentAsCode")
	walkAll(tree, func(id ast.StmtID, st *ast.Stmt) bool {
		switch st.Kind {
		case ast.StmtIf:
			ifs, ok := tree.Stmts.If(id)
			if !ok {
				break
			}
			for _, b := range ifs.Branches {
				r.check(p, b.Keyword, b.Body)
			}
			if ifs.HasElse {
				r.check(p, ifs.ElseKw, ifs.Else)
			}
		case ast.StmtWhile, ast.StmtFor, ast.StmtForEach:
			if loop, ok := tree.Stmts.Loop(id); ok {
				r.check(p, st.Keyword, loop.Body)
			}
		case ast.StmtTry:
			// пустое Исключение допустимо: это осознанное подавление ошибки
			if try, ok := tree.Stmts.Try(id); ok {
				r.check(p, st.Keyword, try.Body)
			}
		}
		return true
	})
	return nil
}

func (r *emptyBlock) check(p *rules.Pass, at source.Span, b ast.Block) {
	if len(b.Stmts) > 0 {
		return
	}
	if r.commentsCode && r.hasComment(b.Span) {
		return
	}
	p.Reportf(at)
}

func (r *emptyBlock) hasComment(sp source.Span) bool {
	for _, c := range r.file.Comments {
		if sp.ContainsSpan(c.Span) {
			return true
		}
	}
	return false
}
