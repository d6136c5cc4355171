package diagfmt

import (
	"unicode/utf8"

	"bslcheck/internal/source"
)

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	// PathModeAuto: короткие пути как есть, длинные абсолютные до имени файла.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

func displayPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), base)
}

// charPos returns the 1-based line and the 1-based column in characters.
func charPos(f *source.File, off uint32) (line, col uint32) {
	lc := f.LineCol(off)
	ls := f.LineSpan(lc.Line - 1)
	end := min(off, ls.End)
	if end < ls.Start {
		return lc.Line, 1
	}
	n := utf8.RuneCount(f.Content[ls.Start:end])
	return lc.Line, uint32(n) + 1 // #nosec G115 -- bounded by the line length
}
