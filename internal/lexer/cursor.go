package lexer

import (
	"bytes"

	"bslcheck/internal/source"
)

// Cursor walks the bytes of one file. Off never passes Limit.
type Cursor struct {
	src   []byte
	file  source.FileID
	Off   uint32
	Limit uint32
}

// NewCursor positions a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	return Cursor{src: f.Content, file: f.ID, Limit: f.Len()}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Rest is the unread input.
func (c *Cursor) Rest() []byte {
	if c.EOF() {
		return nil
	}
	return c.src[c.Off:c.Limit]
}

// Peek returns the current byte or 0 at the end.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if rest := c.Rest(); len(rest) >= 2 {
		return rest[0], rest[1], true
	}
	return 0, 0, false
}

// HasPrefix reports whether the unread input starts with p.
func (c *Cursor) HasPrefix(p string) bool {
	return bytes.HasPrefix(c.Rest(), []byte(p))
}

// Bump consumes and returns one byte; 0 at the end.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Skip consumes up to n bytes.
func (c *Cursor) Skip(n int) {
	for ; n > 0 && !c.EOF(); n-- {
		c.Off++
	}
}

// SkipWhile consumes bytes matching pred and reports whether any were taken.
func (c *Cursor) SkipWhile(pred func(byte) bool) bool {
	start := c.Off
	for !c.EOF() && pred(c.src[c.Off]) {
		c.Off++
	}
	return c.Off != start
}

// Mark is a saved offset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// SpanFrom covers input from m up to the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

// TextFrom is the input from m up to the current offset.
func (c *Cursor) TextFrom(m Mark) string {
	return string(c.src[m:c.Off])
}
