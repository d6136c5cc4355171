package token

import "bslcheck/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// Comment is a '//' comment collected by the parser for the whole file.
// Trailing is true when code precedes the comment on the same line.
type Comment struct {
	Span     source.Span
	Text     string
	Trailing bool
}
