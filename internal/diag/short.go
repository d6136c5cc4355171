package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"bslcheck/internal/source"
)

// shortLine is one row of the short format; notes get their own rows.
type shortLine struct {
	label, code, path string
	line, col         uint32
	msg               string
}

// FormatShort renders one line per diagnostic,
// "warning UnreachableCode src/Module.bsl:3:5 message", ordered by location.
// Paths are relative to the file set base. Returns "" for no diagnostics.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var rows []shortLine
	for i := range diags {
		d := &diags[i]
		if row, ok := shortRow(fs, d.Primary, severityLabel(d.Severity), d.Code.ID(), d.Message); ok {
			rows = append(rows, row)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if row, ok := shortRow(fs, n.Span, "note", d.Code.ID(), n.Msg); ok {
				rows = append(rows, row)
			}
		}
	}
	slices.SortStableFunc(rows, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", r.label, r.code, r.path, r.line, r.col, r.msg)
	}
	return strings.Join(out, "\n")
}

func shortRow(fs *source.FileSet, sp source.Span, label, code, msg string) (shortLine, bool) {
	file := fs.Get(sp.File)
	if file == nil {
		return shortLine{}, false
	}
	pos := file.LineCol(sp.Start)
	return shortLine{
		label: label,
		code:  code,
		path:  strings.TrimPrefix(file.FormatPath("relative", fs.BaseDir()), "./"),
		line:  pos.Line,
		col:   pos.Col,
		// многострочные сообщения сворачиваются в одну строку
		msg: strings.Join(strings.Fields(msg), " "),
	}, true
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevInfo:
		return "info"
	}
	return "hint"
}
