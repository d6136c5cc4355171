package fix

import (
	"fmt"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

// Option adjusts a fix being built.
type Option func(*diag.Fix)

func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = kind }
}

// Preferred marks the fix the editor offers first.
func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

// Resolving records the diagnostics the fix removes.
func Resolving(diags ...diag.Diagnostic) Option {
	return func(f *diag.Fix) { f.Resolves = append(f.Resolves, diags...) }
}

// MakeFixID is stable across runs for the same code and span.
func MakeFixID(code diag.Code, sp source.Span) string {
	return fmt.Sprintf("%s-%d-%d-%d", code.ID(), sp.File, sp.Start, sp.End)
}

// Edits builds one safe quick fix from edits; options may override
// everything.
func Edits(title string, edits []diag.TextEdit, opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText inserts text at an empty span; guard, when set, must match it.
func InsertText(title string, at source.Span, text, guard string, opts ...Option) diag.Fix {
	return Edits(title, []diag.TextEdit{{Span: at, NewText: text, OldText: guard}}, opts...)
}

// DeleteSpan removes span if it still holds expect.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return Edits(title, []diag.TextEdit{{Span: span, OldText: expect}}, opts...)
}

// ReplaceSpan swaps expect at span for newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return Edits(title, []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}}, opts...)
}
