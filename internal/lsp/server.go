// Package lsp serves diagnostics and quick fixes over the Language Server
// Protocol. Documents are synchronised in full; each change schedules a
// debounced analysis whose result replaces the published diagnostics unless
// a newer edit has superseded it.
package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"bslcheck/internal/config"
	"bslcheck/internal/engine"
	"bslcheck/internal/slogutil"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

const defaultDebounce = 300 * time.Millisecond

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Engine *engine.Engine
	// Settings pins the initial settings; bslcheck.toml is then not consulted.
	// nil starts from config.Default().
	Settings *config.Settings
	Debounce time.Duration
	Logger   *slog.Logger
	Version  string
}

// Server handles JSON-RPC for the bslcheck language server.
type Server struct {
	eng      *engine.Engine
	settings *config.Store
	debounce time.Duration
	logger   *slog.Logger
	version  string

	pubMu sync.Mutex

	mu                sync.Mutex
	conn              *jsonrpc2.Conn
	baseCtx           context.Context
	docs              map[protocol.DocumentURI]*document
	workspaceRoot     string
	shutdownRequested bool
	// explicitSettings is set once the client sent settings; a config
	// file found on initialize must not override them.
	explicitSettings bool

	exitOnce sync.Once
	exitCh   chan struct{}
	exitErr  error
}

// NewServer constructs a new LSP server.
func NewServer(opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	eng := opts.Engine
	if eng == nil {
		eng = engine.New(engine.Options{Logger: opts.Logger})
	}
	initial := config.Default()
	if opts.Settings != nil {
		initial = *opts.Settings
	}
	return &Server{
		eng:      eng,
		settings: config.NewStore(initial),
		debounce: debounce,
		logger:   slogutil.OrDiscard(opts.Logger),
		version:  opts.Version,
		docs:     make(map[protocol.DocumentURI]*document),
		exitCh:   make(chan struct{}),

		explicitSettings: opts.Settings != nil,
	}
}

// Run serves LSP requests read from rwc until "exit", the peer hanging up or
// ctx being canceled. Hang-up and cancellation return nil.
func (s *Server) Run(ctx context.Context, rwc io.ReadWriteCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	handler := jsonrpc2.HandlerWithError(s.handle).SuppressErrClosed()
	conn := jsonrpc2.NewConn(ctx, stream, handler,
		jsonrpc2.SetLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug)))

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	select {
	case <-conn.DisconnectNotify():
		s.logger.Debug("client disconnected")
	case <-s.exitCh:
	case <-ctx.Done():
	}
	s.stopAll()
	_ = conn.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitErr
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	s.mu.Lock()
	if s.conn == nil {
		s.conn = conn
	}
	s.mu.Unlock()

	switch req.Method {
	case "initialize":
		var params protocol.InitializeParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		return s.initialize(&params), nil
	case "initialized":
		return nil, nil
	case "shutdown":
		s.shutdown(ctx)
		return nil, nil
	case "exit":
		s.exit()
		return nil, nil
	case "workspace/didChangeConfiguration":
		var params protocol.DidChangeConfigurationParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		s.didChangeConfiguration(&params)
		return nil, nil
	case "textDocument/didOpen":
		var params protocol.DidOpenTextDocumentParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		s.didOpen(&params)
		return nil, nil
	case "textDocument/didChange":
		var params protocol.DidChangeTextDocumentParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		s.didChange(&params)
		return nil, nil
	case "textDocument/didSave":
		var params protocol.DidSaveTextDocumentParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		s.didSave(&params)
		return nil, nil
	case "textDocument/didClose":
		var params protocol.DidCloseTextDocumentParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		s.didClose(ctx, &params)
		return nil, nil
	case "textDocument/codeAction":
		var params protocol.CodeActionParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		return s.codeActions(&params), nil
	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func decodeParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return nil
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

func (s *Server) initialize(params *protocol.InitializeParams) protocol.InitializeResult {
	root := ""
	if p, ok := pathFromURI(params.RootURI); ok {
		root = p
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		if p, ok := pathFromURI(protocol.DocumentURI(params.WorkspaceFolders[0].URI)); ok {
			root = p
		}
	}
	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()

	if params.InitializationOptions != nil {
		s.applySettings(params.InitializationOptions)
	} else if root != "" {
		s.loadProjectSettings(root)
	}

	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{
					protocol.QuickFix,
					protocol.CodeActionKind("source.fixAll"),
					protocol.RefactorRewrite,
				},
			},
		},
		ServerInfo: &protocol.ServerInfo{Name: "bslcheck", Version: s.version},
	}
}

func (s *Server) shutdown(ctx context.Context) {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.stopAll()
	s.clearPublished(ctx)
}

func (s *Server) exit() {
	s.exitOnce.Do(func() {
		s.mu.Lock()
		s.exitErr = ErrExitWithoutShutdown
		if s.shutdownRequested {
			s.exitErr = ErrExit
		}
		s.mu.Unlock()
		close(s.exitCh)
	})
}

// notify sends a notification; a closed connection is not an error here.
func (s *Server) notify(ctx context.Context, method string, params interface{}) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.Notify(ctx, method, params); err != nil && !errors.Is(err, jsonrpc2.ErrClosed) {
		s.logger.Warn("notification failed", "method", method, "err", err)
	}
}
