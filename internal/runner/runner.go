// Package runner executes active rules over one document and isolates their
// failures: a rule that panics or returns an error contributes nothing, the
// rest of the batch still reports.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"strconv"
	"time"

	"bslcheck/internal/diag"
	"bslcheck/internal/rules"
	"bslcheck/internal/trace"
)

// ErrRulePanic wraps the value recovered from a panicking rule.
var ErrRulePanic = errors.New("rule panicked")

// Outcome describes one rule invocation.
type Outcome struct {
	Code        string
	Diagnostics int
	Duration    time.Duration
	Err         error
}

// Failed reports whether the rule was dropped from the result.
func (o Outcome) Failed() bool { return o.Err != nil }

// Runner runs rules sequentially; one document is single-threaded.
type Runner struct {
	logger *slog.Logger
}

// New creates a runner; a nil logger discards.
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{logger: logger}
}

// Run executes one rule. On error or panic the diagnostics are nil.
func (r *Runner) Run(ctx context.Context, a *rules.Active, doc *rules.Document) ([]diag.Diagnostic, error) {
	diags, out := r.run(ctx, a, doc)
	return diags, out.Err
}

// RunAll executes every active rule and concatenates the surviving
// diagnostics, sorted by position. Cancellation stops between rules.
func (r *Runner) RunAll(ctx context.Context, active []*rules.Active, doc *rules.Document) ([]diag.Diagnostic, []Outcome) {
	var all []diag.Diagnostic
	outcomes := make([]Outcome, 0, len(active))
	for _, a := range active {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{Code: a.Descriptor.Code, Err: err})
			continue
		}
		diags, out := r.run(ctx, a, doc)
		outcomes = append(outcomes, out)
		all = append(all, diags...)
	}
	diag.SortDiagnostics(all)
	return all, outcomes
}

func (r *Runner) run(ctx context.Context, a *rules.Active, doc *rules.Document) (diags []diag.Diagnostic, out Outcome) {
	code := a.Descriptor.Code
	out.Code = code

	ctx, span := trace.Start(ctx, trace.ScopeRule, "rule:"+code)
	logger := r.logger.With("rule", code, "path", docPath(doc))
	pass := rules.NewPass(ctx, a, doc, logger)

	defer func() {
		if rec := recover(); rec != nil {
			out.Err = fmt.Errorf("%s: %w: %v", code, ErrRulePanic, rec)
			logger.Error("rule panicked", "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
			trace.Error(trace.FromContext(ctx), trace.ScopeRule, "rule:"+code, "panic", span.ID(),
				map[string]string{"value": fmt.Sprint(rec)})
		}
		if out.Err != nil {
			diags = nil
		}
		out.Diagnostics = len(diags)
		out.Duration = span.WithExtra("diagnostics", strconv.Itoa(out.Diagnostics)).End(errDetail(out.Err))
	}()

	if err := a.Rule.Run(pass); err != nil {
		out.Err = fmt.Errorf("%s: %w", code, err)
		logger.Error("rule failed", "err", err)
		trace.Error(trace.FromContext(ctx), trace.ScopeRule, "rule:"+code, err.Error(), span.ID(), nil)
		return nil, out
	}
	diags = pass.Diagnostics()
	for i := range diags {
		sortNotes(&diags[i])
	}
	return diags, out
}

// related locations go in order of appearance
func sortNotes(d *diag.Diagnostic) {
	sort.SliceStable(d.Notes, func(i, j int) bool {
		a, b := d.Notes[i].Span, d.Notes[j].Span
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Start < b.Start
	})
}

func docPath(doc *rules.Document) string {
	if doc == nil || doc.File == nil {
		return ""
	}
	return doc.File.Path
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return "failed"
}
