package flow

import (
	"bslcheck/internal/ast"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// outcome is the control-flow summary of a statement or a statement run.
type outcome struct {
	// falls: какой-то путь доходит до следующего оператора.
	falls bool
	// fallLeaks explain falls; a later satisfying statement absorbs them.
	fallLeaks []Leak
	// leaks never get absorbed.
	leaks     []Leak
	breaks    []source.Span
	continues []source.Span
	loopExits []source.Span

	stop        int
	unreachable []source.Span
}

func (o *outcome) absorb(other outcome) {
	o.leaks = append(o.leaks, other.leaks...)
	o.breaks = append(o.breaks, other.breaks...)
	o.continues = append(o.continues, other.continues...)
}

// branch merges one arm of a conditional into o.
func (o *outcome) branch(arm outcome, kw source.Span) {
	o.absorb(arm)
	if !arm.falls {
		return
	}
	o.falls = true
	if len(arm.fallLeaks) == 0 {
		o.fallLeaks = append(o.fallLeaks, Leak{Reason: LeakFallthrough, Span: kw})
		return
	}
	o.fallLeaks = append(o.fallLeaks, arm.fallLeaks...)
}

// block evaluates b. Несбалансированные маркеры #Если портят блок, даже
// если стоят в недостижимом коде.
func (a *Analyzer) block(b ast.Block) outcome {
	items := a.segment(b, 0, len(b.Stmts), false)
	o := a.run(b, items)
	for _, sp := range a.unbalanced(b, items) {
		o.leaks = append(o.leaks, Leak{Reason: LeakMalformed, Span: sp})
	}
	return o
}

func (a *Analyzer) unbalanced(b ast.Block, items []item) []source.Span {
	var out []source.Span
	for _, it := range items {
		switch {
		case it.stray:
			out = append(out, a.tree.Stmts.Get(b.Stmts[it.first]).Span)
		case it.region != nil:
			if !it.region.closed {
				out = append(out, it.region.marker)
			}
			for _, br := range it.region.branches {
				out = append(out, a.unbalanced(b, br.items)...)
			}
		}
	}
	return out
}

// run evaluates a segment item by item.
func (a *Analyzer) run(b ast.Block, items []item) outcome {
	acc := outcome{falls: true, stop: -1}
	for k, it := range items {
		o := a.item(b, it)
		acc.absorb(o)
		acc.unreachable = append(acc.unreachable, o.unreachable...)
		if o.falls {
			acc.fallLeaks = append(acc.fallLeaks, o.fallLeaks...)
			continue
		}
		acc.falls = false
		acc.fallLeaks = nil
		acc.stop = it.last
		acc.unreachable = append(acc.unreachable, a.deadTail(b, items[k+1:])...)
		break
	}
	acc.loopExits = append(append(acc.loopExits, acc.breaks...), acc.continues...)
	return acc
}

// deadTail reports the items after a stop. Метка снова делает код достижимым
// (через Перейти), поэтому хвост после неё проверяется отдельно.
func (a *Analyzer) deadTail(b ast.Block, rest []item) []source.Span {
	var out []source.Span
	for k, it := range rest {
		if it.region == nil && !it.stray {
			if st := a.tree.Stmts.Get(b.Stmts[it.first]); st != nil && st.Kind == ast.StmtLabel {
				if k > 0 {
					out = append(out, a.cover(b, rest[0].first, rest[k-1].last))
				}
				tail := a.run(b, rest[k:])
				return append(out, tail.unreachable...)
			}
		}
	}
	if len(rest) > 0 {
		out = append(out, a.cover(b, rest[0].first, rest[len(rest)-1].last))
	}
	return out
}

func (a *Analyzer) cover(b ast.Block, first, last int) source.Span {
	start := a.tree.Stmts.Get(b.Stmts[first]).Span
	end := a.tree.Stmts.Get(b.Stmts[last]).Span
	return start.Cover(end)
}

func (a *Analyzer) item(b ast.Block, it item) outcome {
	switch {
	case it.region != nil:
		return a.region(b, it.region)
	case it.stray:
		return outcome{falls: true}
	}
	return a.stmt(b.Stmts[it.first])
}

// region treats an #Если group like 'Если': satisfied only with #Иначе and
// every branch satisfied. With SplicePreprocessor a falling branch runs on
// through the branches below it.
func (a *Analyzer) region(b ast.Block, r *region) outcome {
	var o outcome
	for k, br := range r.branches {
		arm := a.run(b, br.items)
		// недостижимое считается только по собственному тексту ветви
		o.unreachable = append(o.unreachable, arm.unreachable...)
		if a.opts.SplicePreprocessor && arm.falls && k+1 < len(r.branches) {
			arm = a.run(b, spliced(r.branches[k:]))
		}
		o.branch(arm, br.kw)
	}
	if !r.hasElse && !a.opts.IgnoreMissingElse {
		o.falls = true
		o.fallLeaks = append(o.fallLeaks, Leak{Reason: LeakPreprocMissingElse, Span: r.marker})
	}
	if !r.closed {
		o.falls = true
	}
	return o
}

func spliced(branches []branch) []item {
	var items []item
	for _, br := range branches {
		items = append(items, br.items...)
	}
	return items
}

func (a *Analyzer) stmt(id ast.StmtID) outcome {
	st := a.tree.Stmts.Get(id)
	if st == nil {
		return outcome{falls: true}
	}
	a.depth++
	defer func() { a.depth-- }()
	if a.depth > a.opts.MaxDepth {
		return outcome{falls: true, leaks: []Leak{{Reason: LeakMalformed, Span: st.Span}}}
	}

	var o outcome
	switch st.Kind {
	case ast.StmtReturn, ast.StmtRaise:
		if !a.opts.Exit(a.tree, st) {
			o.leaks = append(o.leaks, Leak{Reason: LeakExit, Span: st.Span})
		}
	case ast.StmtBreak:
		o.breaks = []source.Span{st.Span}
	case ast.StmtContinue:
		o.continues = []source.Span{st.Span}
	case ast.StmtGoto:
		o = a.jump(st)
	case ast.StmtIf:
		o = a.ifStmt(id, st)
	case ast.StmtWhile, ast.StmtFor, ast.StmtForEach:
		o = a.loop(id, st)
	case ast.StmtTry:
		o = a.try(id, st)
	default:
		o.falls = true
	}
	if st.Malformed() {
		o.leaks = append(o.leaks, Leak{Reason: LeakMalformed, Span: st.Span})
	}
	return o
}

func (a *Analyzer) ifStmt(id ast.StmtID, st *ast.Stmt) outcome {
	p, ok := a.tree.Stmts.If(id)
	if !ok {
		return outcome{falls: true, leaks: []Leak{{Reason: LeakMalformed, Span: st.Span}}}
	}
	var o outcome
	for _, br := range p.Branches {
		o.branch(a.block(br.Body), br.Keyword)
	}
	switch {
	case p.HasElse:
		o.branch(a.block(p.Else), p.ElseKw)
	case !a.opts.IgnoreMissingElse:
		o.falls = true
		o.fallLeaks = append(o.fallLeaks, Leak{Reason: LeakMissingElse, Span: st.Keyword})
	}
	return o
}

func (a *Analyzer) loop(id ast.StmtID, st *ast.Stmt) outcome {
	p, ok := a.tree.Stmts.Loop(id)
	if !ok {
		return outcome{falls: true, leaks: []Leak{{Reason: LeakMalformed, Span: st.Span}}}
	}
	body := a.block(p.Body)
	o := outcome{leaks: body.leaks}

	// Пока Истина без Прервать не завершается
	if st.Kind == ast.StmtWhile && a.alwaysTrue(st.Expr) && len(body.breaks) == 0 {
		return o
	}
	if !a.opts.LoopsExecutedAtLeastOnce {
		o.falls = true
		o.fallLeaks = []Leak{{Reason: LeakLoop, Span: st.Keyword}}
		return o
	}
	if !body.falls && len(body.breaks) == 0 && len(body.continues) == 0 {
		return o
	}
	o.falls = true
	o.fallLeaks = append(o.fallLeaks, body.fallLeaks...)
	for _, sp := range append(body.breaks, body.continues...) {
		o.fallLeaks = append(o.fallLeaks, Leak{Reason: LeakLoop, Span: sp})
	}
	if len(o.fallLeaks) == 0 {
		o.fallLeaks = []Leak{{Reason: LeakFallthrough, Span: st.Keyword}}
	}
	return o
}

func (a *Analyzer) try(id ast.StmtID, st *ast.Stmt) outcome {
	p, ok := a.tree.Stmts.Try(id)
	if !ok {
		return outcome{falls: true, leaks: []Leak{{Reason: LeakMalformed, Span: st.Span}}}
	}
	var o outcome
	o.branch(a.block(p.Body), st.Keyword)
	o.branch(a.block(p.Except), p.ExceptKw)
	return o
}

// jump follows 'Перейти ~Метка' to the code after the label. Цикл из
// переходов не выходит из метода, такой путь ничего не нарушает.
func (a *Analyzer) jump(st *ast.Stmt) outcome {
	site, ok := a.labels[st.Name]
	if !ok {
		return outcome{leaks: []Leak{{Reason: LeakMalformed, Span: st.Span}}}
	}
	if a.active[st.Name] {
		return outcome{}
	}
	a.active[st.Name] = true
	defer delete(a.active, st.Name)

	items := a.segment(site.block, site.index, len(site.block.Stmts), true)
	tail := a.run(site.block, items)
	o := outcome{leaks: tail.leaks, breaks: tail.breaks, continues: tail.continues}
	if tail.falls {
		if len(tail.fallLeaks) == 0 {
			o.leaks = append(o.leaks, Leak{Reason: LeakFallthrough, Span: endOf(site.block.Span)})
		} else {
			o.leaks = append(o.leaks, tail.fallLeaks...)
		}
	}
	return o
}

func (a *Analyzer) alwaysTrue(r ast.TokenRange) bool {
	toks := a.tree.File.Slice(r)
	for len(toks) >= 3 && toks[0].Kind == token.LParen && toks[len(toks)-1].Kind == token.RParen {
		toks = toks[1 : len(toks)-1]
	}
	return len(toks) == 1 && toks[0].Kind == token.KwTrue
}
