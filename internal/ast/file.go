package ast

import (
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

// File is one parsed module. Все узлы живут в аренах Builder.
type File struct {
	Source source.FileID
	Span   source.Span
	// Tokens is the full significant token stream, EOF last.
	// Выражения адресуются диапазонами TokenRange в этом срезе.
	Tokens   []token.Token
	Comments []token.Comment
	// Items are top-level entries in source order.
	Items []ItemID
	// Body holds top-level statements (module body code) in source order.
	Body Block
	// Regions are #Область blocks ordered by start offset; Parent indexes this slice.
	Regions []Region
	// Malformed is set when the parser reported at least one error.
	Malformed bool
}

// TokenRange is a half-open range [Start, End) into File.Tokens.
type TokenRange struct {
	Start, End uint32
}

func (r TokenRange) Empty() bool { return r.End <= r.Start }

func (r TokenRange) Len() int {
	if r.Empty() {
		return 0
	}
	return int(r.End - r.Start)
}

// Slice returns the tokens covered by r.
func (f *File) Slice(r TokenRange) []token.Token {
	if r.Empty() || int(r.End) > len(f.Tokens) {
		return nil
	}
	return f.Tokens[r.Start:r.End]
}

// RangeSpan returns the source span covered by r.
func (f *File) RangeSpan(r TokenRange) source.Span {
	toks := f.Slice(r)
	if len(toks) == 0 {
		return source.Span{File: f.Source}
	}
	return toks[0].Span.Cover(toks[len(toks)-1].Span)
}

// Region is a named #Область ... #КонецОбласти block.
type Region struct {
	Name     string
	NameSpan source.Span
	// Open is the '#Область Имя' line, Close the '#КонецОбласти' marker.
	Open  source.Span
	Close source.Span
	Span  source.Span
	// Parent is the index of the enclosing region, -1 at module level.
	Parent int
	Closed bool
}
