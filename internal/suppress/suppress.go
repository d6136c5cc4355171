// Package suppress interprets BSLLS control comments:
//
//	// BSLLS:LineLength-выкл   ...   // BSLLS:LineLength-вкл
//	// BSLLS-off               ...   // BSLLS-on
//	А = 1; // BSLLS:LineLength-выкл    (только эта строка)
//
// A range without a closing comment extends to the end of the file.
package suppress

import (
	"math"
	"regexp"
	"strings"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

var control = regexp.MustCompile(`(?i)^//\s*BSLLS(?::([\p{L}\p{N}_]+))?-(вкл|выкл|on|off)\s*$`)

// all rules
const anyCode = ""

type lineRange struct {
	from, to uint32 // inclusive, 1-based
}

func (r lineRange) contains(line uint32) bool { return line >= r.from && line <= r.to }

// Filter answers whether a diagnostic falls into a suppressed area.
type Filter struct {
	file   *source.File
	ranges map[string][]lineRange
}

// Compute scans the comments of one file.
func Compute(file *source.File, comments []token.Comment) *Filter {
	f := &Filter{file: file, ranges: make(map[string][]lineRange)}
	open := make(map[string]uint32)

	for _, c := range comments {
		m := control.FindStringSubmatch(strings.TrimSpace(c.Text))
		if m == nil {
			continue
		}
		code := strings.ToLower(m[1])
		off := isOff(m[2])
		line := file.LineCol(c.Span.Start).Line

		switch {
		case c.Trailing && off:
			f.ranges[code] = append(f.ranges[code], lineRange{line, line})
		case off:
			if _, ok := open[code]; !ok {
				open[code] = line
			}
		default:
			if from, ok := open[code]; ok {
				f.ranges[code] = append(f.ranges[code], lineRange{from, line})
				delete(open, code)
			}
		}
	}
	for code, from := range open {
		f.ranges[code] = append(f.ranges[code], lineRange{from, math.MaxUint32})
	}
	return f
}

func isOff(word string) bool {
	w := strings.ToLower(word)
	return w == "выкл" || w == "off"
}

// Empty reports whether the file has no control comments.
func (f *Filter) Empty() bool { return f == nil || len(f.ranges) == 0 }

// Suppressed reports whether d starts on a line switched off for its code.
func (f *Filter) Suppressed(d diag.Diagnostic) bool {
	if f.Empty() || d.Primary.File != f.file.ID {
		return false
	}
	line := f.file.LineCol(d.Primary.Start).Line
	for _, key := range [...]string{anyCode, strings.ToLower(string(d.Code))} {
		for _, r := range f.ranges[key] {
			if r.contains(line) {
				return true
			}
		}
	}
	return false
}

// Apply returns the diagnostics that are not suppressed; ds is not modified.
func (f *Filter) Apply(ds []diag.Diagnostic) []diag.Diagnostic {
	if f.Empty() {
		return ds
	}
	out := make([]diag.Diagnostic, 0, len(ds))
	for _, d := range ds {
		if !f.Suppressed(d) {
			out = append(out, d)
		}
	}
	return out
}
