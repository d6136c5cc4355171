package source

import (
	"unicode/utf8"
)

// PositionOf converts a byte offset into an LSP position (UTF-16 columns).
func (f *File) PositionOf(off uint32) Position {
	if n := f.Len(); off > n {
		off = n
	}
	line := lineOf(f.LineIdx, off)
	start := f.lineStart(line)
	return Position{Line: line, Character: utf16Len(f.Content[start:off])}
}

// OffsetOf converts an LSP position back into a byte offset.
// Позиции за концом строки прижимаются к её концу, за концом файла к концу файла.
func (f *File) OffsetOf(pos Position) uint32 {
	if pos.Line >= f.LineCount() {
		return f.Len()
	}
	sp := f.LineSpan(pos.Line)
	line := f.Content[sp.Start:sp.End]
	var units uint32
	i := 0
	for i < len(line) && units < pos.Character {
		r, size := utf8.DecodeRune(line[i:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		// суррогатная пара не разрезается
		if units > pos.Character {
			break
		}
		i += size
	}
	return sp.Start + uint32(i) // #nosec G115 -- i <= len(line)
}

// RangeOf converts a span into a pair of LSP positions.
func (f *File) RangeOf(sp Span) (start, end Position) {
	return f.PositionOf(sp.Start), f.PositionOf(sp.End)
}

// SpanOf converts a pair of LSP positions into a span.
func (f *File) SpanOf(start, end Position) Span {
	s := f.OffsetOf(start)
	e := f.OffsetOf(end)
	if e < s {
		s, e = e, s
	}
	return Span{File: f.ID, Start: s, End: e}
}

func utf16Len(b []byte) uint32 {
	var n uint32
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		b = b[size:]
	}
	return n
}
