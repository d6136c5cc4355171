package lsp

import (
	"context"
	"time"

	"go.lsp.dev/protocol"

	"bslcheck/internal/engine"
	"bslcheck/internal/source"
)

// document is an open editor buffer. seq grows on every edit; an analysis
// started for an older seq is discarded.
type document struct {
	uri     protocol.DocumentURI
	path    string
	text    string
	version int32
	seq     uint64

	timer  *time.Timer
	cancel context.CancelFunc

	// last applied analysis, used for code actions
	analyzed *analysis
}

type analysis struct {
	seq     uint64
	version int32
	fs      *source.FileSet
	file    *source.File
	result  *engine.Result
}

// stop cancels the pending timer and any running analysis. Caller holds s.mu.
func (d *document) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (s *Server) didOpen(params *protocol.DidOpenTextDocumentParams) {
	item := params.TextDocument
	path, ok := pathFromURI(item.URI)
	if !ok {
		// untitled и прочие схемы анализируются под именем URI
		path = string(item.URI)
	}
	s.mu.Lock()
	doc := s.docs[item.URI]
	if doc == nil {
		doc = &document{uri: item.URI, path: path}
		s.docs[item.URI] = doc
	}
	doc.text = item.Text
	doc.version = item.Version
	s.mu.Unlock()
	s.logger.Debug("didOpen", "uri", item.URI, "version", item.Version)
	s.schedule(item.URI)
}

func (s *Server) didChange(params *protocol.DidChangeTextDocumentParams) {
	uri := params.TextDocument.URI
	if len(params.ContentChanges) == 0 {
		return
	}
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		s.logger.Warn("didChange for unknown document", "uri", uri)
		return
	}
	// полная синхронизация: последний элемент содержит весь текст
	doc.text = params.ContentChanges[len(params.ContentChanges)-1].Text
	doc.version = params.TextDocument.Version
	s.mu.Unlock()
	s.schedule(uri)
}

func (s *Server) didSave(params *protocol.DidSaveTextDocumentParams) {
	uri := params.TextDocument.URI
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		return
	}
	if params.Text != "" {
		doc.text = params.Text
	}
	s.mu.Unlock()
	s.schedule(uri)
}

func (s *Server) didClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) {
	uri := params.TextDocument.URI
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	doc := s.docs[uri]
	if doc != nil {
		doc.stop()
		delete(s.docs, uri)
	}
	s.mu.Unlock()
	if doc == nil {
		return
	}
	s.publish(ctx, uri, 0, []protocol.Diagnostic{})
}

// stopAll cancels every pending and running analysis.
func (s *Server) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		doc.stop()
		doc.seq++
	}
}

// clearPublished sends empty diagnostics for every open document.
func (s *Server) clearPublished(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	uris := make([]protocol.DocumentURI, 0, len(s.docs))
	for uri, doc := range s.docs {
		if doc.analyzed != nil {
			uris = append(uris, uri)
		}
		doc.analyzed = nil
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.publish(ctx, uri, 0, []protocol.Diagnostic{})
	}
}
