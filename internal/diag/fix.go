package diag

import "bslcheck/internal/source"

// FixKind classifies a fix for UI listings.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	// FixKindFixAll resolves every diagnostic of one code in a document.
	FixKindFixAll
	FixKindRefactorRewrite
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindFixAll:
		return "fixall"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	}
	return "unknown"
}

// FixApplicability is the confidence that a fix is correct.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText. OldText, если задан, проверяется
// движком перед применением.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a set of edits resolving the listed diagnostics.
// Edits may touch several files; Span.File groups them per document.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
	// Resolves lists exactly the diagnostics this fix addresses.
	Resolves []Diagnostic
}

// Files returns the distinct files touched by the fix in first-edit order.
func (f Fix) Files() []source.FileID {
	seen := make(map[source.FileID]struct{}, 1)
	out := make([]source.FileID, 0, 1)
	for _, e := range f.Edits {
		if _, ok := seen[e.Span.File]; ok {
			continue
		}
		seen[e.Span.File] = struct{}{}
		out = append(out, e.Span.File)
	}
	return out
}
