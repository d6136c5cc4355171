package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

type PrettyOpts struct {
	Color bool
	// Context is the number of source lines printed above the primary line.
	Context     int8
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

type palette struct {
	err, warn, info, hint func(a ...any) string
	code, path, gutter    func(a ...any) string
	caret, note, fix      func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		if !enabled {
			return fmt.Sprint
		}
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgBlue, color.Bold),
		hint:   mk(color.FgCyan),
		code:   mk(color.Bold),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan, color.Bold),
		fix:    mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err(s.String())
	case diag.SevWarning:
		return p.warn(s.String())
	case diag.SevInfo:
		return p.info(s.String())
	default:
		return p.hint(s.String())
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Колонки считаются в символах, а не в байтах.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, p, &d, fs, opts)
	}
}

func prettyOne(w io.Writer, p palette, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
		return
	}
	line, col := charPos(f, d.Primary.Start)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path(fmt.Sprintf("%s:%d:%d", displayPath(fs, f, opts.PathMode), line, col)),
		p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
	writeSnippet(w, p, f, d.Primary, int(opts.Context))

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", p.note("note:"), n.Msg)
				continue
			}
			nl, nc := charPos(nf, n.Span.Start)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note("note:"), displayPath(fs, nf, opts.PathMode), nl, nc, n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			writeFix(w, p, fs, i+1, &fx, opts)
		}
	}
}

func writeFix(w io.Writer, p palette, fs *source.FileSet, n int, fx *diag.Fix, opts PrettyOpts) {
	header := fmt.Sprintf("fix #%d: %s", n, fx.Title)
	if fx.ID != "" {
		header += " id=" + fx.ID
	}
	header += fmt.Sprintf(" [%s, %s]", fx.Kind, fx.Applicability)
	fmt.Fprintf(w, "  %s\n", p.fix(header))
	for _, e := range fx.Edits {
		ef := fs.Get(e.Span.File)
		if ef == nil {
			continue
		}
		l, c := charPos(ef, e.Span.Start)
		fmt.Fprintf(w, "    %s:%d:%d apply=%q\n", displayPath(fs, ef, opts.PathMode), l, c, e.NewText)
		if !opts.ShowPreview {
			continue
		}
		preview, err := previewEdit(fs, e)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "    preview:\n")
		for _, b := range preview.before {
			fmt.Fprintf(w, "      - %s\n", b)
		}
		for _, a := range preview.after {
			fmt.Fprintf(w, "      + %s\n", a)
		}
	}
}

// writeSnippet prints context lines and the primary line with carets.
// Многострочный диапазон подчёркивается до конца первой строки.
func writeSnippet(w io.Writer, p palette, f *source.File, sp source.Span, context int) {
	start := f.LineCol(sp.Start)
	lineNo := start.Line
	first := lineNo
	if context > 0 {
		if uint32(context) >= lineNo { // #nosec G115 -- context > 0
			first = 1
		} else {
			first = lineNo - uint32(context) // #nosec G115 -- context > 0
		}
	}
	width := len(fmt.Sprint(lineNo))
	for ln := first; ln <= lineNo; ln++ {
		fmt.Fprintf(w, " %s %s\n", p.gutter(fmt.Sprintf("%*d |", width, ln)), f.GetLine(ln))
	}

	text := f.GetLine(lineNo)
	ls := f.LineSpan(lineNo - 1)
	from := min(int(sp.Start-ls.Start), len(text))
	to := len(text)
	if sp.End <= ls.End {
		to = max(int(sp.End-ls.Start), from)
	}
	pad := indentFor(text[:from])
	n := runewidth.StringWidth(text[from:to])
	if n < 1 {
		n = 1
	}
	marks := "^" + strings.Repeat("~", n-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter(strings.Repeat(" ", width)+" |"), pad, p.caret(marks))
}

// indentFor keeps tabs so the carets line up under tab-indented code.
func indentFor(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
