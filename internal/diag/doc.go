// Package diag defines the diagnostic model shared by the parser, the rule
// runner, the quick-fix layer and every reporter.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Hint, Info, Warning, Error (ordered by importance).
//   - Code – rule code ("UnreachableCode") or a LEXnnnn/SYNnnnn code for
//     lexer and parser problems.
//   - Message – short, actionable text.
//   - Primary – the source.Span the finding points at.
//   - Notes – related locations in order of appearance in the text.
//   - Tags – LSP tags (unnecessary, deprecated).
//
// Fix is a set of TextEdit values plus the diagnostics it resolves. Edits are
// expressed in source coordinates; OldText guards the edit engine in
// internal/fix against applying an edit to changed text.
//
// # Emitting diagnostics
//
// The lexer and parser emit through a Reporter (BagReporter into a Bag, or
// DedupReporter in front of it). Rules do not use Reporter: they return
// diagnostics to the runner, which owns isolation and ordering.
//
// Package diag does no formatting beyond FormatShort; rendering lives in
// internal/diagfmt.
package diag
