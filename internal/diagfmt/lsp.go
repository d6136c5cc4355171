package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

// LSPSource is the "source" field of published diagnostics.
const LSPSource = "bslcheck"

// LSPSeverity maps a severity onto the LSP scale (1 = Error .. 4 = Hint).
func LSPSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.SevInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}

// LSPRange converts a span into an LSP range of f (UTF-16 columns).
func LSPRange(f *source.File, sp source.Span) protocol.Range {
	start, end := f.RangeOf(sp)
	return protocol.Range{
		Start: protocol.Position{Line: start.Line, Character: start.Character},
		End:   protocol.Position{Line: end.Line, Character: end.Character},
	}
}

// FileURI builds a file:// URI; relative paths are resolved against the
// working directory.
func FileURI(path string) protocol.DocumentURI {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uri.File(path)
}

// LSPDiagnostic converts d. Заметки становятся relatedInformation; заметки
// из файлов, которых нет в fs, отбрасываются.
func LSPDiagnostic(d *diag.Diagnostic, fs *source.FileSet, docURI protocol.DocumentURI) protocol.Diagnostic {
	out := protocol.Diagnostic{
		Severity: LSPSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   LSPSource,
		Message:  d.Message,
	}
	if f := fs.Get(d.Primary.File); f != nil {
		out.Range = LSPRange(f, d.Primary)
	}
	for _, t := range d.Tags {
		switch t {
		case diag.TagUnnecessary:
			out.Tags = append(out.Tags, protocol.DiagnosticTagUnnecessary)
		case diag.TagDeprecated:
			out.Tags = append(out.Tags, protocol.DiagnosticTagDeprecated)
		}
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		if nf == nil {
			continue
		}
		loc := docURI
		if n.Span.File != d.Primary.File {
			loc = FileURI(nf.Path)
		}
		out.RelatedInformation = append(out.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: loc, Range: LSPRange(nf, n.Span)},
			Message:  n.Msg,
		})
	}
	return out
}

// LSPDiagnostics converts a document's diagnostics; the result is never nil
// so an empty publish clears the client's list.
func LSPDiagnostics(ds []diag.Diagnostic, fs *source.FileSet, docURI protocol.DocumentURI) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(ds))
	for i := range ds {
		out = append(out, LSPDiagnostic(&ds[i], fs, docURI))
	}
	return out
}

// CodeActionKind maps a fix kind onto LSP kinds; fix-all actions go under
// "source.fixAll".
func CodeActionKind(k diag.FixKind) protocol.CodeActionKind {
	switch k {
	case diag.FixKindFixAll:
		return protocol.CodeActionKind("source.fixAll")
	case diag.FixKindRefactorRewrite:
		return protocol.RefactorRewrite
	default:
		return protocol.QuickFix
	}
}

// LSPCodeAction converts a fix into a code action with a workspace edit.
func LSPCodeAction(fx *diag.Fix, fs *source.FileSet, docURI protocol.DocumentURI) protocol.CodeAction {
	action := protocol.CodeAction{
		Title:       fx.Title,
		Kind:        CodeActionKind(fx.Kind),
		IsPreferred: fx.IsPreferred,
		Diagnostics: LSPDiagnostics(fx.Resolves, fs, docURI),
	}
	changes := make(map[protocol.DocumentURI][]protocol.TextEdit)
	for _, e := range fx.Edits {
		f := fs.Get(e.Span.File)
		if f == nil {
			continue
		}
		target := docURI
		if len(fx.Resolves) > 0 && e.Span.File != fx.Resolves[0].Primary.File {
			target = FileURI(f.Path)
		}
		changes[target] = append(changes[target], protocol.TextEdit{Range: LSPRange(f, e.Span), NewText: e.NewText})
	}
	action.Edit = &protocol.WorkspaceEdit{Changes: changes}
	return action
}

// LSPJSON prints one publishDiagnostics payload per file, in file order.
// Формат совпадает с уведомлением textDocument/publishDiagnostics.
func LSPJSON(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	type group struct {
		file source.FileID
		ds   []diag.Diagnostic
	}
	var groups []*group
	index := map[source.FileID]*group{}
	if bag != nil {
		for _, d := range bag.Items() {
			g, ok := index[d.Primary.File]
			if !ok {
				g = &group{file: d.Primary.File}
				index[d.Primary.File] = g
				groups = append(groups, g)
			}
			g.ds = append(g.ds, d)
		}
	}
	out := make([]protocol.PublishDiagnosticsParams, 0, len(groups))
	for _, g := range groups {
		f := fs.Get(g.file)
		if f == nil {
			continue
		}
		docURI := FileURI(f.Path)
		out = append(out, protocol.PublishDiagnosticsParams{
			URI:         docURI,
			Diagnostics: LSPDiagnostics(g.ds, fs, docURI),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
