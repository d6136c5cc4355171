package flow

import (
	"cmp"
	"slices"

	"bslcheck/internal/ast"
	"bslcheck/internal/source"
)

// UnreachableIn collects unreachable statement runs of block and of every
// nested block, ordered by position. Вложенные блоки недостижимого кода не
// сообщаются повторно.
func (a *Analyzer) UnreachableIn(block ast.Block) []source.Span {
	if a.tree == nil {
		return nil
	}
	out := a.Check(block).Unreachable
	own := len(out)
	for _, id := range block.Stmts {
		st := a.tree.Stmts.Get(id)
		if st == nil || covered(out[:own], st.Span) {
			continue
		}
		for _, child := range a.tree.Stmts.Children(id) {
			out = append(out, a.UnreachableIn(child)...)
		}
	}
	slices.SortFunc(out, func(x, y source.Span) int { return cmp.Compare(x.Start, y.Start) })
	return out
}

func covered(spans []source.Span, sp source.Span) bool {
	for _, s := range spans {
		if s.ContainsSpan(sp) {
			return true
		}
	}
	return false
}
