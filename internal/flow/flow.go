// Package flow answers "does every path through this block end in an exit
// with property P" for method bodies, including #Если regions.
package flow

import (
	"fmt"

	"bslcheck/internal/ast"
	"bslcheck/internal/source"
)

// ExitFunc decides whether a terminal statement (Возврат, ВызватьИсключение)
// satisfies the property.
type ExitFunc func(tree *ast.Builder, st *ast.Stmt) bool

type Options struct {
	// LoopsExecutedAtLeastOnce treats a loop as satisfying when its body does.
	LoopsExecutedAtLeastOnce bool
	// IgnoreMissingElse treats an 'Если' without 'Иначе' as if the absent branch satisfied.
	IgnoreMissingElse bool
	// SplicePreprocessor lets an #Если branch that falls through continue
	// into the text of the branches after it, as if the markers were absent.
	// A region without #Иначе still never satisfies by itself.
	SplicePreprocessor bool
	// Exit defaults to AnyExit.
	Exit ExitFunc
	// MaxDepth bounds statement nesting; 0 means DefaultMaxDepth.
	MaxDepth int
}

const DefaultMaxDepth = 256

type LeakReason uint8

const (
	// LeakFallthrough: управление доходит до конца блока.
	LeakFallthrough LeakReason = iota
	LeakMissingElse
	LeakLoop
	LeakPreprocMissingElse
	// LeakExit: выход, не удовлетворяющий свойству (Возврат без значения в функции).
	LeakExit
	LeakMalformed
)

var leakNames = [...]string{
	LeakFallthrough:        "fallthrough",
	LeakMissingElse:        "missing else",
	LeakLoop:               "loop",
	LeakPreprocMissingElse: "preprocessor missing #Иначе",
	LeakExit:               "exit",
	LeakMalformed:          "malformed",
}

func (r LeakReason) String() string {
	if int(r) < len(leakNames) {
		return leakNames[r]
	}
	return "unknown"
}

// Leak is a place where some path escapes without satisfying the property.
type Leak struct {
	Reason LeakReason
	Span   source.Span
}

func (l Leak) String() string { return fmt.Sprintf("%s at %s", l.Reason, l.Span) }

// Result of checking one block.
type Result struct {
	Satisfied bool
	// Stop is the index into Block.Stmts of the statement no path continues
	// past, or -1 when control can fall off the end of the block.
	Stop  int
	Leaks []Leak
	// Unreachable are statement runs of this block (and of its #Если
	// branches) that no path reaches.
	Unreachable []source.Span
}

// Malformed reports whether the result was degraded by broken input.
func (r Result) Malformed() bool {
	for _, l := range r.Leaks {
		if l.Reason == LeakMalformed {
			return true
		}
	}
	return false
}

// Analyzer checks blocks of one parse tree.
type Analyzer struct {
	tree   *ast.Builder
	opts   Options
	labels map[string]labelSite
	depth  int
	// gotos under evaluation, for cycles
	active map[string]bool
}

type labelSite struct {
	block ast.Block
	index int
}

// New prepares an analyzer; labels are collected from every method body and
// from the module body.
func New(tree *ast.Builder, opts Options) *Analyzer {
	if opts.Exit == nil {
		opts.Exit = AnyExit
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	a := &Analyzer{tree: tree, opts: opts, labels: map[string]labelSite{}, active: map[string]bool{}}
	if tree != nil && tree.File != nil {
		a.collectLabels(tree.File.Body)
		for _, m := range tree.Methods() {
			a.collectLabels(m.Body)
		}
	}
	return a
}

func (a *Analyzer) collectLabels(b ast.Block) {
	for i, id := range b.Stmts {
		st := a.tree.Stmts.Get(id)
		if st == nil {
			continue
		}
		if st.Kind == ast.StmtLabel {
			if _, dup := a.labels[st.Name]; !dup {
				a.labels[st.Name] = labelSite{block: b, index: i}
			}
		}
		for _, child := range a.tree.Stmts.Children(id) {
			a.collectLabels(child)
		}
	}
}

// Check evaluates block. Ошибки разбора, слишком глубокая вложенность и
// внутренние паники дают «не удовлетворяет», а не панику.
func (a *Analyzer) Check(block ast.Block) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Stop: -1, Leaks: []Leak{{Reason: LeakMalformed, Span: block.Span}}}
		}
	}()
	if a.tree == nil {
		return Result{Stop: -1, Leaks: []Leak{{Reason: LeakMalformed, Span: block.Span}}}
	}
	a.depth = 0
	out := a.block(block)
	res = Result{Stop: out.stop, Unreachable: out.unreachable}
	res.Leaks = append(res.Leaks, out.leaks...)
	if out.falls {
		if len(out.fallLeaks) == 0 {
			res.Leaks = append(res.Leaks, Leak{Reason: LeakFallthrough, Span: endOf(block.Span)})
		} else {
			res.Leaks = append(res.Leaks, out.fallLeaks...)
		}
	}
	for _, sp := range out.loopExits {
		// Прервать/Продолжить вне цикла
		res.Leaks = append(res.Leaks, Leak{Reason: LeakMalformed, Span: sp})
	}
	res.Leaks = uniqueLeaks(res.Leaks)
	res.Satisfied = len(res.Leaks) == 0
	return res
}

// AllPathsSatisfy is Check(block).Satisfied for a one-off query.
func AllPathsSatisfy(tree *ast.Builder, block ast.Block, opts Options) bool {
	return New(tree, opts).Check(block).Satisfied
}

// uniqueLeaks drops repeats; склейка ветвей #Если проходит один и тот же
// текст несколько раз.
func uniqueLeaks(leaks []Leak) []Leak {
	seen := make(map[Leak]bool, len(leaks))
	out := leaks[:0]
	for _, l := range leaks {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func endOf(sp source.Span) source.Span {
	return source.Span{File: sp.File, Start: sp.End, End: sp.End}
}
