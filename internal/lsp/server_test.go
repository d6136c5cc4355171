package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const badComment = "//комментарий\n"

type testClient struct {
	conn  *jsonrpc2.Conn
	diags chan protocol.PublishDiagnosticsParams
	done  chan error
}

// startServer connects a jsonrpc2 client to a server over an in-memory pipe.
func startServer(t *testing.T, opts ServerOptions) *testClient {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	if opts.Debounce == 0 {
		opts.Debounce = 5 * time.Millisecond
	}
	srv := NewServer(opts)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, serverSide) }()

	diags := make(chan protocol.PublishDiagnosticsParams, 64)
	handler := jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		if req.Method != "textDocument/publishDiagnostics" || req.Params == nil {
			return nil, nil
		}
		var p protocol.PublishDiagnosticsParams
		if err := json.Unmarshal(*req.Params, &p); err != nil {
			return nil, err
		}
		diags <- p
		return nil, nil
	})
	conn := jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}), handler)
	t.Cleanup(func() {
		cancel()
		_ = conn.Close()
	})
	return &testClient{conn: conn, diags: diags, done: done}
}

func (c *testClient) initialize(t *testing.T, params *protocol.InitializeParams) protocol.InitializeResult {
	t.Helper()
	if params == nil {
		params = &protocol.InitializeParams{}
	}
	var result protocol.InitializeResult
	if err := c.conn.Call(context.Background(), "initialize", params, &result); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := c.conn.Notify(context.Background(), "initialized", &protocol.InitializedParams{}); err != nil {
		t.Fatalf("initialized: %v", err)
	}
	return result
}

func (c *testClient) notify(t *testing.T, method string, params interface{}) {
	t.Helper()
	if err := c.conn.Notify(context.Background(), method, params); err != nil {
		t.Fatalf("%s: %v", method, err)
	}
}

func (c *testClient) open(t *testing.T, docURI protocol.DocumentURI, text string) {
	t.Helper()
	c.notify(t, "textDocument/didOpen", &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: docURI, LanguageID: "bsl", Version: 1, Text: text},
	})
}

// waitFor returns the first publish for docURI accepted by match.
func (c *testClient) waitFor(t *testing.T, docURI protocol.DocumentURI, match func(protocol.PublishDiagnosticsParams) bool) protocol.PublishDiagnosticsParams {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case p := <-c.diags:
			if p.URI == docURI && match(p) {
				return p
			}
		case <-timeout:
			t.Fatalf("no matching publishDiagnostics for %s", docURI)
			return protocol.PublishDiagnosticsParams{}
		}
	}
}

func hasCode(p protocol.PublishDiagnosticsParams, code string) bool {
	for _, d := range p.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func testURI(t *testing.T, name string) protocol.DocumentURI {
	t.Helper()
	return uri.File(filepath.Join(t.TempDir(), name))
}

func TestInitializeCapabilities(t *testing.T) {
	c := startServer(t, ServerOptions{Version: "0.1.0"})
	result := c.initialize(t, nil)

	if result.ServerInfo == nil || result.ServerInfo.Name != "bslcheck" || result.ServerInfo.Version != "0.1.0" {
		t.Fatalf("unexpected server info %+v", result.ServerInfo)
	}
	sync, ok := result.Capabilities.TextDocumentSync.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected textDocumentSync %#v", result.Capabilities.TextDocumentSync)
	}
	if sync["change"] != float64(1) || sync["openClose"] != true {
		t.Fatalf("expected full sync, got %v", sync)
	}
	if result.Capabilities.CodeActionProvider == nil {
		t.Fatalf("code actions must be advertised")
	}
}

func TestPublishDiagnosticsOnOpen(t *testing.T) {
	c := startServer(t, ServerOptions{})
	c.initialize(t, nil)
	docURI := testURI(t, "Module.bsl")
	c.open(t, docURI, badComment)

	p := c.waitFor(t, docURI, func(p protocol.PublishDiagnosticsParams) bool { return hasCode(p, "SpaceAtStartComment") })
	if p.Version != 1 {
		t.Fatalf("expected version 1, got %d", p.Version)
	}
	for _, d := range p.Diagnostics {
		if d.Code != "SpaceAtStartComment" {
			continue
		}
		if d.Source != "bslcheck" || d.Range.Start.Line != 0 || d.Range.Start.Character != 0 || d.Range.End.Line != 0 {
			t.Fatalf("unexpected diagnostic %+v", d)
		}
	}
}

func TestDidChangeSupersedesDiagnostics(t *testing.T) {
	c := startServer(t, ServerOptions{})
	c.initialize(t, nil)
	docURI := testURI(t, "Module.bsl")
	c.open(t, docURI, badComment)

	c.notify(t, "textDocument/didChange", &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "// комментарий\n"}},
	})

	p := c.waitFor(t, docURI, func(p protocol.PublishDiagnosticsParams) bool { return p.Version == 2 })
	if hasCode(p, "SpaceAtStartComment") {
		t.Fatalf("fixed comment is still reported: %+v", p.Diagnostics)
	}
}

func TestCodeActionInsertsSpace(t *testing.T) {
	c := startServer(t, ServerOptions{})
	c.initialize(t, nil)
	docURI := testURI(t, "Module.bsl")
	c.open(t, docURI, badComment)
	c.waitFor(t, docURI, func(p protocol.PublishDiagnosticsParams) bool { return hasCode(p, "SpaceAtStartComment") })

	var actions []protocol.CodeAction
	err := c.conn.Call(context.Background(), "textDocument/codeAction", &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Range:        protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 0, Character: 1}},
	}, &actions)
	if err != nil {
		t.Fatalf("codeAction: %v", err)
	}
	var found *protocol.CodeAction
	for i := range actions {
		if actions[i].Title == "Добавить пробел" {
			found = &actions[i]
		}
	}
	if found == nil {
		t.Fatalf("no insert-space action in %+v", actions)
	}
	if found.Kind != protocol.QuickFix || found.Edit == nil {
		t.Fatalf("unexpected action %+v", found)
	}
	edits := found.Edit.Changes[docURI]
	if len(edits) != 1 || edits[0].NewText != " " || edits[0].Range.Start != (protocol.Position{Line: 0, Character: 2}) {
		t.Fatalf("unexpected edits %+v", found.Edit.Changes)
	}

	// фильтр only отсекает quickfix
	var filtered []protocol.CodeAction
	err = c.conn.Call(context.Background(), "textDocument/codeAction", &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Context:      protocol.CodeActionContext{Only: []protocol.CodeActionKind{protocol.RefactorRewrite}},
	}, &filtered)
	if err != nil {
		t.Fatalf("codeAction: %v", err)
	}
	for _, a := range filtered {
		if a.Kind == protocol.QuickFix {
			t.Fatalf("quickfix passed the only filter: %+v", a)
		}
	}
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	c := startServer(t, ServerOptions{})
	c.initialize(t, nil)
	docURI := testURI(t, "Module.bsl")
	c.open(t, docURI, badComment)
	c.waitFor(t, docURI, func(p protocol.PublishDiagnosticsParams) bool { return len(p.Diagnostics) > 0 })

	c.notify(t, "textDocument/didClose", &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	})
	c.waitFor(t, docURI, func(p protocol.PublishDiagnosticsParams) bool { return len(p.Diagnostics) == 0 })
}

func TestConfigurationChangeAppliesMinimumLevel(t *testing.T) {
	c := startServer(t, ServerOptions{})
	c.initialize(t, nil)
	docURI := testURI(t, "Module.bsl")
	c.open(t, docURI, badComment)
	c.waitFor(t, docURI, func(p protocol.PublishDiagnosticsParams) bool { return hasCode(p, "SpaceAtStartComment") })

	c.notify(t, "workspace/didChangeConfiguration", &protocol.DidChangeConfigurationParams{
		Settings: map[string]interface{}{
			"bslcheck": map[string]interface{}{"minimumLSPDiagnosticLevel": "warning"},
		},
	})
	c.waitFor(t, docURI, func(p protocol.PublishDiagnosticsParams) bool { return !hasCode(p, "SpaceAtStartComment") })
}

func TestProjectConfigOnInitialize(t *testing.T) {
	root := t.TempDir()
	cfg := "[diagnostics]\nminimumLSPDiagnosticLevel = \"error\"\n"
	if err := os.WriteFile(filepath.Join(root, "bslcheck.toml"), []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c := startServer(t, ServerOptions{})
	c.initialize(t, &protocol.InitializeParams{RootURI: uri.File(root)})

	docURI := uri.File(filepath.Join(root, "Module.bsl"))
	c.open(t, docURI, badComment)
	p := c.waitFor(t, docURI, func(protocol.PublishDiagnosticsParams) bool { return true })
	if hasCode(p, "SpaceAtStartComment") {
		t.Fatalf("hint diagnostic must be filtered by the project config: %+v", p.Diagnostics)
	}
}

func TestUnknownRequest(t *testing.T) {
	c := startServer(t, ServerOptions{})
	c.initialize(t, nil)
	var result interface{}
	err := c.conn.Call(context.Background(), "textDocument/hover", map[string]interface{}{}, &result)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Fatalf("expected method not found, got %v", err)
	}
}

func TestExitAfterShutdown(t *testing.T) {
	c := startServer(t, ServerOptions{})
	c.initialize(t, nil)
	var result interface{}
	if err := c.conn.Call(context.Background(), "shutdown", nil, &result); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	c.notify(t, "exit", nil)
	select {
	case err := <-c.done:
		if !errors.Is(err, ErrExit) {
			t.Fatalf("expected ErrExit, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not exit")
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	c := startServer(t, ServerOptions{})
	c.initialize(t, nil)
	c.notify(t, "exit", nil)
	select {
	case err := <-c.done:
		if !errors.Is(err, ErrExitWithoutShutdown) {
			t.Fatalf("expected ErrExitWithoutShutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not exit")
	}
}
