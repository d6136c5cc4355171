package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезает вывод, Bag не трогает
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// JSONReport is the document written by JSON.
type JSONReport struct {
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Count       int              `json:"count"`
}

type JSONDiagnostic struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location JSONLocation `json:"location"`
	Tags     []string     `json:"tags,omitempty"`
	Notes    []JSONNote   `json:"notes,omitempty"`
	Fixes    []JSONFix    `json:"fixes,omitempty"`
}

// JSONLocation всегда несёт байтовые смещения; строки и колонки (в символах)
// только с IncludePositions.
type JSONLocation struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type JSONNote struct {
	Message  string       `json:"message"`
	Location JSONLocation `json:"location"`
}

type JSONFix struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Kind          string     `json:"kind"`
	Applicability string     `json:"applicability"`
	IsPreferred   bool       `json:"is_preferred,omitempty"`
	Edits         []JSONEdit `json:"edits,omitempty"`
}

type JSONEdit struct {
	Location    JSONLocation `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

var tagNames = map[diag.Tag]string{
	diag.TagUnnecessary: "unnecessary",
	diag.TagDeprecated:  "deprecated",
}

// JSON writes the bag as an indented JSONReport.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONReport(bag, fs, opts))
}

// NewJSONReport converts at most opts.Max diagnostics of bag.
func NewJSONReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) JSONReport {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	b := jsonBuilder{fs: fs, opts: opts}
	out := make([]JSONDiagnostic, 0, len(items))
	for i := range items {
		out = append(out, b.diagnostic(&items[i]))
	}
	return JSONReport{Diagnostics: out, Count: len(out)}
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) diagnostic(d *diag.Diagnostic) JSONDiagnostic {
	out := JSONDiagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	for _, t := range d.Tags {
		name, ok := tagNames[t]
		if !ok {
			name = "unknown"
		}
		out.Tags = append(out.Tags, name)
	}
	if b.opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, JSONNote{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		// предпочтительные и безопасные первыми
		fixes := slices.Clone(d.Fixes)
		slices.SortStableFunc(fixes, func(x, y diag.Fix) int {
			if x.IsPreferred != y.IsPreferred {
				if x.IsPreferred {
					return -1
				}
				return 1
			}
			return cmp.Or(
				cmp.Compare(x.Applicability, y.Applicability),
				cmp.Compare(x.Kind, y.Kind),
				cmp.Compare(x.Title, y.Title),
				cmp.Compare(x.ID, y.ID),
			)
		})
		for i := range fixes {
			out.Fixes = append(out.Fixes, b.fix(&fixes[i]))
		}
	}
	return out
}

func (b jsonBuilder) fix(fx *diag.Fix) JSONFix {
	out := JSONFix{
		ID:            fx.ID,
		Title:         fx.Title,
		Kind:          fx.Kind.String(),
		Applicability: fx.Applicability.String(),
		IsPreferred:   fx.IsPreferred,
	}
	for _, e := range fx.Edits {
		je := JSONEdit{Location: b.location(e.Span), NewText: e.NewText, OldText: e.OldText}
		if b.opts.IncludePreviews {
			if p, err := previewEdit(b.fs, e); err == nil {
				je.BeforeLines, je.AfterLines = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, je)
	}
	return out
}

func (b jsonBuilder) location(sp source.Span) JSONLocation {
	loc := JSONLocation{StartByte: sp.Start, EndByte: sp.End}
	f := b.fs.Get(sp.File)
	if f == nil {
		return loc
	}
	loc.File = displayPath(b.fs, f, b.opts.PathMode)
	if b.opts.IncludePositions {
		loc.StartLine, loc.StartCol = charPos(f, sp.Start)
		loc.EndLine, loc.EndCol = charPos(f, sp.End)
	}
	return loc
}
