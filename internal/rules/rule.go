package rules

import (
	"context"
	"fmt"
	"log/slog"

	"bslcheck/internal/ast"
	"bslcheck/internal/config"
	"bslcheck/internal/diag"
	"bslcheck/internal/metadata"
	"bslcheck/internal/source"
	"bslcheck/internal/symbols"
)

// Rule inspects one document. Экземпляр создаётся заново на каждый прогон,
// так что поля правила можно использовать как рабочее состояние.
type Rule interface {
	Run(pass *Pass) error
}

// QuickFixer is implemented by rules that can turn their diagnostics into edits.
type QuickFixer interface {
	QuickFixes(req *FixRequest) []diag.Fix
}

// Document is everything a rule may read about the analyzed module.
type Document struct {
	File *source.File
	Tree *symbols.Tree
	Meta metadata.Context
	// Settings are the snapshot the run was selected with; read-only.
	Settings *config.Settings
}

// AST returns the parse tree; nil when only the module symbol is available.
func (d *Document) AST() *ast.Builder {
	if d == nil || d.Tree == nil {
		return nil
	}
	return d.Tree.AST
}

// Text returns the source text of a span.
func (d *Document) Text(sp source.Span) string {
	if d.File == nil {
		return ""
	}
	return d.File.Text(sp)
}

// Active pairs a fresh rule instance with its resolved configuration.
type Active struct {
	Descriptor *Descriptor
	Rule       Rule
	Config     Config
	Type       Type
	Severity   Severity
}

// LSPSeverity is the client-facing level after metadata overrides.
func (a *Active) LSPSeverity() diag.Severity { return LSPSeverity(a.Type, a.Severity) }

// Pass carries one rule invocation and collects its diagnostics.
type Pass struct {
	Ctx    context.Context
	Doc    *Document
	Rule   *Active
	Config Config
	Logger *slog.Logger

	diags []diag.Diagnostic
}

// NewPass prepares an invocation of a over doc.
func NewPass(ctx context.Context, a *Active, doc *Document, logger *slog.Logger) *Pass {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pass{Ctx: ctx, Doc: doc, Rule: a, Config: a.Config, Logger: logger}
}

// AST is a shortcut for Doc.AST().
func (p *Pass) AST() *ast.Builder { return p.Doc.AST() }

// Diagnostic builds a diagnostic of this rule; args fill the descriptor message.
func (p *Pass) Diagnostic(sp source.Span, args ...any) diag.Diagnostic {
	msg := p.Rule.Descriptor.Message
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return diag.New(p.Rule.LSPSeverity(), diag.Code(p.Rule.Descriptor.Code), sp, msg)
}

// Report records d, forcing the rule's code and severity.
func (p *Pass) Report(d diag.Diagnostic) {
	d.Code = diag.Code(p.Rule.Descriptor.Code)
	d.Severity = p.Rule.LSPSeverity()
	p.diags = append(p.diags, d)
}

// Reportf is Report(Diagnostic(sp, args...)).
func (p *Pass) Reportf(sp source.Span, args ...any) {
	p.Report(p.Diagnostic(sp, args...))
}

// Diagnostics returns what the rule reported so far.
func (p *Pass) Diagnostics() []diag.Diagnostic { return p.diags }

// FixRequest asks a rule for edits resolving some of its diagnostics.
type FixRequest struct {
	Doc *Document
	// Diagnostics are this rule's diagnostics intersecting Range.
	Diagnostics []diag.Diagnostic
	// All holds every diagnostic of the rule in the document, for fix-all.
	All    []diag.Diagnostic
	Range  source.Span
	Config Config
}
