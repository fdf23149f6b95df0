package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	iLsp "github.com/mdxgo/mdx/internal/lsp"
	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
)

// Server publishes compile diagnostics for open documents over
// jsonrpc2. Unlike a proxying server there is no downstream language
// server here: the compile pipeline itself is the diagnostics source.
type Server struct {
	conn *jsonrpc2.Conn

	// tracks canceled request IDs
	cancelMap sync.Map

	// tracking for method request counts
	trackRequestCount sync.Map

	// abstraction for compiling operations
	docService *iLsp.DocumentService

	opts Options
}

type Options struct {
	DocService iLsp.DocumentServiceOptions
}

var DefaultServerOptions = Options{
	DocService: iLsp.DefaultDocumentServiceOptions,
}

func NewServer(options Options) *Server {
	return &Server{
		docService: iLsp.NewDocumentService(options.DocService),
		opts:       options,
	}
}

func (s *Server) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (result interface{}, err error) {
	if s.conn == nil {
		s.conn = conn
	}
	slog.Info("received request", "method", req.Method, "id", req.ID)
	reqCount, _ := s.trackRequestCount.LoadOrStore(req.Method, 1)
	if count, ok := reqCount.(int); ok {
		s.trackRequestCount.Store(req.Method, count+1)
	}

	if _, ok := s.cancelMap.Load(req.ID.String()); ok {
		slog.Debug("request was canceled", "id", req.ID)
		s.cancelMap.Delete(req.ID.String())
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		slog.Info("initializing lsp server")

		var initParams lsp.InitializeParams
		if req.Params != nil {
			if err := json.Unmarshal(*req.Params, &initParams); err != nil {
				return nil, err
			}
		}

		syncKind := lsp.TDSKFull
		return lsp.InitializeResult{
			Capabilities: lsp.ServerCapabilities{
				TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
					Kind: &syncKind,
				},
			},
		}, nil

	case "initialized":
		slog.Info("server initialized")
		return nil, nil

	case "shutdown":
		slog.Info("shutting down")
		s.printDebugStats()
		return nil, nil

	case "exit":
		slog.Info("exiting")
		os.Exit(0)
		return nil, nil

	case "textDocument/didOpen":
		var params lsp.DidOpenTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		s.docService.UpdateDocument(params.TextDocument.URI, params.TextDocument.Text)
		return nil, s.publishDiagnostics(ctx, params.TextDocument.URI, params.TextDocument.Text)

	case "textDocument/didChange":
		var params lsp.DidChangeTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		if len(params.ContentChanges) == 0 {
			return nil, nil
		}

		// full sync: the last change carries the whole document
		content := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docService.UpdateDocument(params.TextDocument.URI, content)
		return nil, s.publishDiagnostics(ctx, params.TextDocument.URI, content)

	case "textDocument/didSave":
		var params lsp.DidSaveTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		content, ok := s.docService.Content(params.TextDocument.URI)
		if !ok {
			return nil, fmt.Errorf("no tracked content for %s", params.TextDocument.URI)
		}

		if s.opts.DocService.WriteOnSave {
			outPath, err := s.docService.CompileToDisk(ctx, params.TextDocument.URI, content)
			if err != nil {
				slog.Error("compile on save failed", "uri", params.TextDocument.URI, "error", err)
			} else {
				slog.Info("compiled on save", "output", outPath)
			}
		}

		return nil, s.publishDiagnostics(ctx, params.TextDocument.URI, content)

	case "textDocument/didClose":
		var params lsp.DidCloseTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		s.docService.CloseDocument(params.TextDocument.URI)
		return nil, nil

	case "$/cancelRequest":
		var params lsp.CancelParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		slog.Debug("canceling request", "id", params.ID)
		s.cancelMap.Store(params.ID.String(), struct{}{})
		return nil, nil

	default:
		slog.Debug("unhandled method", "method", req.Method)
		return nil, nil
	}
}

// publishDiagnostics compiles content and notifies the client of the
// result, clearing old diagnostics on a clean compile.
func (s *Server) publishDiagnostics(ctx context.Context, uri lsp.DocumentURI, content string) error {
	diagnostics := s.docService.Diagnostics(ctx, uri, content)
	return s.SendDiagnostics(ctx, lsp.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) SendDiagnostics(ctx context.Context, params lsp.PublishDiagnosticsParams) error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Notify(ctx, "textDocument/publishDiagnostics", params)
}

func (s *Server) printDebugStats() {
	s.trackRequestCount.Range(func(key, value interface{}) bool {
		msg := fmt.Sprintf("Method: %-30s Count: %d", key.(string), value.(int))
		slog.Debug(msg)
		return true
	})
}
