package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// Len is the content size in bytes.
func (f *File) Len() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// LineCount counts lines; a trailing '\n' opens one more empty line.
func (f *File) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	return n + 1
}

// lineStart is the offset of the 0-based line; past the end it is Len.
func (f *File) lineStart(line uint32) uint32 {
	switch {
	case line == 0:
		return 0
	case int(line) > len(f.LineIdx):
		return f.Len()
	}
	return f.LineIdx[line-1] + 1
}

// LineCol converts a byte offset into a 1-based line/column pair.
func (f *File) LineCol(off uint32) LineCol {
	line := lineOf(f.LineIdx, off)
	return LineCol{Line: line + 1, Col: off - f.lineStart(line) + 1}
}

// LineSpan covers the 0-based line without its '\n'.
func (f *File) LineSpan(line uint32) Span {
	end := f.Len()
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line]
	}
	return Span{File: f.ID, Start: min(f.lineStart(line), end), End: end}
}

// GetLine returns the 1-based line, or "" when there is no such line.
func (f *File) GetLine(n uint32) string {
	if n == 0 || n > f.LineCount() {
		return ""
	}
	return f.Text(f.LineSpan(n - 1))
}

// Text returns the content under sp clipped to the file.
func (f *File) Text(sp Span) string {
	n := f.Len()
	start, end := min(sp.Start, n), min(sp.End, n)
	if end < start {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders Path for output. mode is absolute, relative (to
// baseDir, or the working directory), basename or auto; auto keeps
// short and relative paths and cuts long absolute ones to the file name.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		return filepath.ToSlash(abs)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, ok := relativePath(f.Path, baseDir); ok {
			return rel
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
