package checks

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
)

func ifElseDuplicatedCodeBlock() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "IfElseDuplicatedCodeBlock",
		Name:               "Повторяющиеся блоки кода в синтаксической конструкции Если...Тогда...ИначеЕсли...",
		Message:            "Повторяющийся блок кода в ветвях конструкции Если",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMinor,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagSuspicious},
		MinutesToFix:       10,
		New:                func() rules.Rule { return &dupBlocks{} },
	}
}

func ifElseDuplicatedCondition() *rules.Descriptor {
	return &rules.Descriptor{
		Code:               "IfElseDuplicatedCondition",
		Name:               "Повторяющиеся условия в синтаксической конструкции Если...Тогда...ИначеЕсли...",
		Message:            "Повторяющееся условие в конструкции Если",
		Type:               rules.TypeCodeSmell,
		Severity:           rules.SeverityMajor,
		ActivatedByDefault: true,
		Tags:               []rules.Tag{rules.TagSuspicious},
		MinutesToFix:       10,
		New:                func() rules.Rule { return &dupConds{} },
	}
}

type dupBlocks struct{}

func (r *dupBlocks) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	walkAll(tree, func(id ast.StmtID, st *ast.Stmt) bool {
		ifs, ok := tree.Stmts.If(id)
		if !ok {
			return true
		}
		var arms []ast.Block
		for _, b := range ifs.Branches {
			arms = append(arms, b.Body)
		}
		if ifs.HasElse {
			arms = append(arms, ifs.Else)
		}
		reportDuplicates(p, arms, func(b ast.Block) (source.Span, string) {
			// пустые ветки одинаковы всегда, их разбирает EmptyCodeBlock
			if len(b.Stmts) == 0 {
				return source.Span{}, ""
			}
			sp := stmtsSpan(tree, b)
			return sp, key(tokensIn(tree.File, sp))
		})
		return true
	})
	return nil
}

type dupConds struct{}

func (r *dupConds) Run(p *rules.Pass) error {
	tree := p.AST()
	if tree == nil {
		return nil
	}
	walkAll(tree, func(id ast.StmtID, st *ast.Stmt) bool {
		ifs, ok := tree.Stmts.If(id)
		if !ok {
			return true
		}
		reportDuplicates(p, ifs.Branches, func(b ast.CondBranch) (source.Span, string) {
			return tree.File.RangeSpan(b.Cond), key(tree.File.Slice(b.Cond))
		})
		return true
	})
	return nil
}

// reportDuplicates groups items by key; every repeat is reported with a note
// pointing at the first occurrence. Пустой ключ пропускается.
func reportDuplicates[T any](p *rules.Pass, items []T, keyOf func(T) (source.Span, string)) {
	first := make(map[string]source.Span, len(items))
	for _, it := range items {
		sp, k := keyOf(it)
		if k == "" {
			continue
		}
		orig, seen := first[k]
		if !seen {
			first[k] = sp
			continue
		}
		p.Report(p.Diagnostic(sp).WithNote(orig, "первое вхождение"))
	}
}
