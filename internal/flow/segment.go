package flow

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// item is one entry of a segment: a statement or a whole #Если group.
// first/last index Block.Stmts inclusively.
type item struct {
	first, last int
	region      *region
	// stray is a #ИначеЕсли/#Иначе/#КонецЕсли without its #Если in this block.
	stray bool
}

type region struct {
	marker   source.Span
	branches []branch
	hasElse  bool
	closed   bool
}

type branch struct {
	kw    source.Span
	items []item
}

// segment groups the flat statements b.Stmts[from:to] into items.
// При lenient (вход по метке внутрь ветви) #Иначе на нулевом уровне
// означает конец текущей ветви: управление продолжается после #КонецЕсли.
func (a *Analyzer) segment(b ast.Block, from, to int, lenient bool) []item {
	var items []item
	for i := from; i < to; {
		st := a.tree.Stmts.Get(b.Stmts[i])
		if st == nil || st.Kind != ast.StmtPreproc {
			items = append(items, item{first: i, last: i})
			i++
			continue
		}
		switch st.Preproc {
		case token.PreprocIf:
			r, next := a.group(b, i, to)
			items = append(items, item{first: i, last: next - 1, region: r})
			i = next
		case token.PreprocElsIf, token.PreprocElse:
			if lenient {
				i = a.skipToEnd(b, i, to)
				continue
			}
			items = append(items, item{first: i, last: i, stray: true})
			i++
		case token.PreprocEndIf:
			if !lenient {
				items = append(items, item{first: i, last: i, stray: true})
			}
			i++
		default:
			items = append(items, item{first: i, last: i})
			i++
		}
	}
	return items
}

// group collects an #Если ... #КонецЕсли starting at index at; returns the
// index after the closing marker (or to when unclosed).
func (a *Analyzer) group(b ast.Block, at, to int) (*region, int) {
	open := a.tree.Stmts.Get(b.Stmts[at])
	r := &region{marker: open.Span}
	kw := open.Span
	start := at + 1
	depth := 0
	for j := at + 1; j < to; j++ {
		st := a.tree.Stmts.Get(b.Stmts[j])
		if st == nil || st.Kind != ast.StmtPreproc {
			continue
		}
		switch st.Preproc {
		case token.PreprocIf:
			depth++
		case token.PreprocElsIf, token.PreprocElse:
			if depth > 0 {
				continue
			}
			r.branches = append(r.branches, branch{kw: kw, items: a.segment(b, start, j, false)})
			kw, start = st.Span, j+1
			if st.Preproc == token.PreprocElse {
				r.hasElse = true
			}
		case token.PreprocEndIf:
			if depth > 0 {
				depth--
				continue
			}
			r.branches = append(r.branches, branch{kw: kw, items: a.segment(b, start, j, false)})
			r.closed = true
			return r, j + 1
		}
	}
	r.branches = append(r.branches, branch{kw: kw, items: a.segment(b, start, to, false)})
	return r, to
}

// skipToEnd moves past the #КонецЕсли closing the group that contains index at.
func (a *Analyzer) skipToEnd(b ast.Block, at, to int) int {
	depth := 0
	for j := at + 1; j < to; j++ {
		st := a.tree.Stmts.Get(b.Stmts[j])
		if st == nil || st.Kind != ast.StmtPreproc {
			continue
		}
		switch st.Preproc {
		case token.PreprocIf:
			depth++
		case token.PreprocEndIf:
			if depth == 0 {
				return j + 1
			}
			depth--
		}
	}
	return to
}
