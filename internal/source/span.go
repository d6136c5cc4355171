package source

import "fmt"

// Span is a half-open byte range [Start, End) within one file.
type Span struct {
	File       FileID
	Start, End uint32
}

func (s Span) Empty() bool { return s.End == s.Start }

func (s Span) Len() uint32 { return s.End - s.Start }

// String: "file:start-end", для логов и трассы.
func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

// Cover returns the smallest span containing both s and other. Spans of
// different files leave s as is.
func (s Span) Cover(other Span) Span {
	if other.File == s.File {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}

// Contains reports whether off lies inside s. An empty span holds only its
// own position, so a caret right at an insertion point still hits it.
func (s Span) Contains(off uint32) bool {
	if s.Empty() {
		return off == s.Start
	}
	return s.Start <= off && off < s.End
}

// ContainsSpan reports whether other lies fully inside s.
func (s Span) ContainsSpan(other Span) bool {
	return other.File == s.File && s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether two spans of the same file intersect. С пустым
// span касание границы тоже пересечение: вставка на краю правки конфликтует.
func (s Span) Overlaps(other Span) bool {
	switch {
	case other.File != s.File:
		return false
	case s.Empty(), other.Empty():
		return s.Start <= other.End && other.Start <= s.End
	}
	return s.Start < other.End && other.Start < s.End
}
