package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"bslcheck/internal/ast"
	"bslcheck/internal/config"
	"bslcheck/internal/diag"
	"bslcheck/internal/metadata"
	"bslcheck/internal/observ"
	"bslcheck/internal/parser"
	"bslcheck/internal/rules"
	"bslcheck/internal/runner"
	"bslcheck/internal/source"
	"bslcheck/internal/suppress"
	"bslcheck/internal/symbols"
	"bslcheck/internal/trace"
)

// Result of analyzing one document.
type Result struct {
	Doc *rules.Document
	// Syntax holds lexer and parser diagnostics; they bypass rule filters.
	Syntax []diag.Diagnostic
	// Diagnostics are rule findings after suppression and the minimum level.
	Diagnostics []diag.Diagnostic
	Suppressed  int
	BelowLevel  int
	Outcomes    []runner.Outcome
	Timing      *observ.Report
}

// All returns syntax and rule diagnostics ordered by position.
func (r *Result) All() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.Syntax)+len(r.Diagnostics))
	out = append(out, r.Syntax...)
	out = append(out, r.Diagnostics...)
	diag.SortDiagnostics(out)
	return out
}

// Failed lists rules dropped because they panicked or returned an error.
func (r *Result) Failed() []runner.Outcome {
	var out []runner.Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

// Analyze runs the full pipeline over file. settings nil means config.Default().
// Ошибка возвращается только при отмене контекста.
func (e *Engine) Analyze(ctx context.Context, file *source.File, settings *config.Settings) (*Result, error) {
	if file == nil {
		return nil, fmt.Errorf("analyze: nil file")
	}
	if settings == nil {
		def := config.Default()
		settings = &def
	}
	ctx, docSpan := trace.Start(ctx, trace.ScopeDocument, file.Path)

	var timer *observ.Timer
	if e.opts.Timings {
		timer = observ.NewTimer()
	}
	phase := func(name string) func(note string) {
		stop := timer.Phase(name)
		_, sp := trace.Start(ctx, trace.ScopePhase, name)
		return func(note string) {
			sp.End(note)
			stop(note)
		}
	}

	res := &Result{}

	end := phase("parse")
	tree, syntax := e.parse(file)
	res.Syntax = syntax
	end(fmt.Sprintf("diags=%d", len(syntax)))

	end = phase("symbols")
	var symTree *symbols.Tree
	if tree != nil {
		symTree = symbols.Build(moduleName(file.Path), tree)
	} else {
		// дерево разбора недоступно: правила видят только символ модуля
		whole := source.Span{File: file.ID, End: file.LineSpan(file.LineCount() - 1).End}
		symTree = symbols.ModuleOnly(moduleName(file.Path), whole)
	}
	end("")

	end = phase("select")
	meta := metadata.ContextFor(e.opts.Provider, file.Path)
	active := e.selector.Select(meta, settings)
	end(fmt.Sprintf("rules=%d", len(active)))

	doc := &rules.Document{File: file, Tree: symTree, Meta: meta, Settings: settings}
	res.Doc = doc

	end = phase("rules")
	found, outcomes := e.runner.RunAll(ctx, active, doc)
	res.Outcomes = outcomes
	end(fmt.Sprintf("diags=%d", len(found)))

	end = phase("filter")
	var filter *suppress.Filter
	if tree != nil {
		filter = suppress.Compute(file, tree.File.Comments)
	}
	kept := filter.Apply(found)
	res.Suppressed = len(found) - len(kept)
	res.Diagnostics = kept[:0:0]
	for _, d := range kept {
		if d.Severity < settings.MinimumLevel {
			res.BelowLevel++
			continue
		}
		res.Diagnostics = append(res.Diagnostics, d)
	}
	end(fmt.Sprintf("kept=%d", len(res.Diagnostics)))

	res.Timing = timer.Report()
	docSpan.WithExtra("diagnostics", fmt.Sprint(len(res.Diagnostics)))
	docSpan.End("")

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// parse never panics; a broken parser yields a nil tree and a diagnostic.
func (e *Engine) parse(file *source.File) (tree *ast.Builder, syntax []diag.Diagnostic) {
	bag := diag.NewBag(e.opts.MaxSyntaxErrors)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("parser panicked", "path", file.Path, "panic", fmt.Sprint(r))
			tree = nil
			bag.Add(diag.NewError(diag.SynInternal, source.Span{File: file.ID}, fmt.Sprintf("internal parser error: %v", r)))
			syntax = bag.Items()
		}
	}()
	// восстановление после ошибки может сообщить об одном месте дважды
	res := parser.ParseFile(file, parser.Options{Reporter: diag.NewDedupReporter(&diag.BagReporter{Bag: bag})})
	return res.Tree, bag.Items()
}

// moduleName: 'CommonModules/Общий/Ext/Module.bsl' -> 'Общий', 'script.os' -> 'script'.
func moduleName(p string) string {
	if name, ok := metadata.CommonModuleName(p); ok {
		return name
	}
	base := filepath.Base(filepath.ToSlash(p))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
