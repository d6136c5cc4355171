package lsp

import (
	"go.lsp.dev/protocol"

	"bslcheck/internal/diag"
	"bslcheck/internal/diagfmt"
	"bslcheck/internal/source"
)

// codeActions answers textDocument/codeAction from the last applied analysis
// of the document. A document that was edited since gets no actions: its
// offsets no longer match.
func (s *Server) codeActions(params *protocol.CodeActionParams) []protocol.CodeAction {
	uri := params.TextDocument.URI
	s.mu.Lock()
	doc := s.docs[uri]
	var an *analysis
	if doc != nil && doc.analyzed != nil && doc.analyzed.seq == doc.seq {
		an = doc.analyzed
	}
	s.mu.Unlock()
	out := []protocol.CodeAction{}
	if an == nil {
		return out
	}

	rng := an.file.SpanOf(
		source.Position{Line: params.Range.Start.Line, Character: params.Range.Start.Character},
		source.Position{Line: params.Range.End.Line, Character: params.Range.End.Character},
	)
	fixes := s.eng.QuickFixes(an.result.Doc, an.result.Diagnostics, rng)
	// синтаксические диагностики несут исправления сами
	for _, d := range an.result.Syntax {
		if d.Primary.Overlaps(rng) {
			for _, fx := range d.Fixes {
				if len(fx.Resolves) == 0 {
					fx.Resolves = []diag.Diagnostic{d}
				}
				fixes = append(fixes, fx)
			}
		}
	}

	for i := range fixes {
		if !kindAllowed(fixes[i].Kind, params.Context.Only) {
			continue
		}
		out = append(out, diagfmt.LSPCodeAction(&fixes[i], an.fs, uri))
	}
	return out
}

// kindAllowed applies the client's "only" filter; "source" admits
// "source.fixAll" and so on.
func kindAllowed(k diag.FixKind, only []protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	kind := string(diagfmt.CodeActionKind(k))
	for _, o := range only {
		if kind == string(o) || (len(kind) > len(o) && kind[:len(o)] == string(o) && kind[len(o)] == '.') {
			return true
		}
	}
	return false
}
