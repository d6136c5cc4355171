package lsp

import (
	"context"
	"errors"
	"time"

	"fortio.org/safecast"
	"go.lsp.dev/protocol"

	"bslcheck/internal/diagfmt"
	"bslcheck/internal/source"
)

// schedule restarts the debounce timer of uri and supersedes any analysis
// still running for an older text.
func (s *Server) schedule(uri protocol.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil {
		return
	}
	doc.stop()
	doc.seq++
	seq := doc.seq
	doc.timer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(uri, seq)
	})
}

// scheduleAll re-analyzes every open document, e.g. after a settings change.
func (s *Server) scheduleAll() {
	s.mu.Lock()
	uris := make([]protocol.DocumentURI, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.schedule(uri)
	}
}

func (s *Server) runDiagnostics(uri protocol.DocumentURI, seq uint64) {
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil || doc.seq != seq || s.baseCtx == nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	doc.timer = nil
	doc.cancel = cancel
	path, text, version := doc.path, doc.text, doc.version
	s.mu.Unlock()
	defer cancel()

	settings := s.settings.Snapshot()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, []byte(text)))

	started := time.Now()
	res, err := s.eng.Analyze(ctx, file, &settings)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("analysis failed", "uri", uri, "err", err)
		}
		return
	}
	for _, o := range res.Failed() {
		s.logger.Warn("rule failed", "uri", uri, "rule", o.Code, "err", o.Err)
	}

	// pubMu keeps an older result from being published after a newer one
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	doc = s.docs[uri]
	if doc == nil || doc.seq != seq {
		s.mu.Unlock()
		s.logger.Debug("analysis discarded", "uri", uri, "seq", seq)
		return
	}
	doc.cancel = nil
	doc.analyzed = &analysis{seq: seq, version: version, fs: fs, file: file, result: res}
	s.mu.Unlock()

	all := res.All()
	s.logger.Debug("analysis done", "uri", uri, "seq", seq, "diagnostics", len(all), "elapsed", time.Since(started))
	s.publish(ctx, uri, version, diagfmt.LSPDiagnostics(all, fs, uri))
}

func (s *Server) publish(ctx context.Context, uri protocol.DocumentURI, version int32, diags []protocol.Diagnostic) {
	params := protocol.PublishDiagnosticsParams{URI: uri, Diagnostics: diags}
	if v, err := safecast.Conv[uint32](version); err == nil {
		params.Version = v
	}
	s.notify(ctx, "textDocument/publishDiagnostics", &params)
}
