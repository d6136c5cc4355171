package diagfmt

import (
	"fmt"
	"strings"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

// editPreview holds the whole lines an edit touches, before and after it.
type editPreview struct {
	before []string
	after  []string
}

// previewEdit applies one edit to a copy of the lines it covers.
func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return editPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	if edit.Span.End < edit.Span.Start {
		return editPreview{}, fmt.Errorf("edit span %s is reversed", edit.Span)
	}

	// LineCol 1-based, LineSpan 0-based
	first := file.LineCol(edit.Span.Start).Line - 1
	last := file.LineCol(edit.Span.End).Line - 1
	block := source.Span{
		File:  file.ID,
		Start: file.LineSpan(first).Start,
		End:   file.LineSpan(last).End,
	}
	if !block.ContainsSpan(edit.Span) {
		return editPreview{}, fmt.Errorf("edit span %s outside of lines %d-%d", edit.Span, first+1, last+1)
	}

	before := file.Text(block)
	lo := edit.Span.Start - block.Start
	hi := edit.Span.End - block.Start
	after := before[:lo] + edit.NewText + before[hi:]

	return editPreview{before: previewLines(before), after: previewLines(after)}, nil
}

func previewLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
