// Package engine wires parsing, the symbol tree, rule selection, the runner,
// suppression and quick fixes into one per-document analysis.
package engine

import (
	"log/slog"

	"bslcheck/internal/checks"
	"bslcheck/internal/diag"
	"bslcheck/internal/metadata"
	"bslcheck/internal/quickfix"
	"bslcheck/internal/rules"
	"bslcheck/internal/runner"
	"bslcheck/internal/selector"
	"bslcheck/internal/source"
)

// Options configures an Engine. Нулевое значение пригодно: встроенный каталог,
// без метаданных, без логов.
type Options struct {
	// Registry defaults to the built-in catalog.
	Registry *rules.Registry
	// Provider answers metadata questions; nil infers module kinds from paths.
	Provider metadata.Provider
	Logger   *slog.Logger
	// MaxSyntaxErrors caps parse diagnostics per document; 0 means no cap.
	MaxSyntaxErrors int
	// Timings records per-phase durations in Result.Timing.
	Timings bool
}

// Engine is safe for concurrent use: the catalog is read-only and every
// analysis creates fresh rule instances.
type Engine struct {
	opts     Options
	registry *rules.Registry
	selector *selector.Selector
	runner   *runner.Runner
	fixes    *quickfix.Provider
	logger   *slog.Logger
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := opts.Registry
	if reg == nil {
		reg = checks.NewRegistry()
	}
	return &Engine{
		opts:     opts,
		registry: reg,
		selector: selector.New(reg, logger),
		runner:   runner.New(logger),
		fixes:    quickfix.New(reg, logger),
		logger:   logger,
	}
}

// Registry exposes the catalog the engine runs.
func (e *Engine) Registry() *rules.Registry { return e.registry }

// AllDescriptors lists the catalog in registration order.
func (e *Engine) AllDescriptors() []*rules.Descriptor { return e.registry.All() }

// QuickFixes returns the fixes for diagnostics of doc intersecting rng.
// Ноль подходящих диагностик даёт пустой список.
func (e *Engine) QuickFixes(doc *rules.Document, diagnostics []diag.Diagnostic, rng source.Span) []diag.Fix {
	if doc == nil {
		return nil
	}
	return e.fixes.Provide(doc, diagnostics, rng)
}
