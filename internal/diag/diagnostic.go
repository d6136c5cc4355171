package diag

import (
	"bslcheck/internal/source"
)

// Note is a related location. Порядок notes = порядок появления в тексте.
type Note struct {
	Span source.Span
	Msg  string
}

// Tag is an LSP diagnostic tag.
type Tag uint8

const (
	TagUnnecessary Tag = 1
	TagDeprecated  Tag = 2
)

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Tags     []Tag
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithTag(tag Tag) Diagnostic {
	for _, t := range d.Tags {
		if t == tag {
			return d
		}
	}
	d.Tags = append(d.Tags, tag)
	return d
}

func (d Diagnostic) WithFix(title string, edits ...TextEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{
		Title:         title,
		Kind:          FixKindQuickFix,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         edits,
	})
	return d
}

func (d Diagnostic) WithFixSuggestion(fix Fix) Diagnostic {
	d.Fixes = append(d.Fixes, fix)
	return d
}

// SameAs reports whether two diagnostics describe the same finding
// (code + primary span + message); used to match client-sent diagnostics.
func (d Diagnostic) SameAs(other Diagnostic) bool {
	return d.Code == other.Code && d.Primary == other.Primary && d.Message == other.Message
}
