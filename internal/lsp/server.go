package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"pseudo/internal/analysis"
	"pseudo/internal/trace"
	"pseudo/internal/version"
	"pseudo/internal/workspace"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Debounce       time.Duration
	Analysis       analysis.Options
	MaxDiagnostics int
	Logger         *slog.Logger
}

// Server handles stdio JSON-RPC for pseudocode documents.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	log    *slog.Logger
	ws     *workspace.Workspace

	mu                sync.Mutex
	published         map[string]struct{}
	shutdownRequested bool
	maxDiagnostics    int
	completionLimit   int
	baseCtx           context.Context
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		in:              bufio.NewReader(in),
		out:             bufio.NewWriter(out),
		log:             logger,
		published:       make(map[string]struct{}),
		maxDiagnostics:  maxDiagnostics,
		completionLimit: opts.Analysis.CompletionLimit,
		baseCtx:         context.Background(),
	}
	s.ws = workspace.New(workspace.Options{
		Analysis: opts.Analysis,
		Publish:  s.publishResult,
		Debounce: debounce,
		Logger:   logger,
	})
	return s
}

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn("failed to parse message", "err", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	span := trace.Begin(trace.FromContext(s.context()), trace.ScopeRequest, msg.Method, 0)
	defer span.End("")

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.isShutdown() {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseCtx
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownRequested
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2, // incremental
				Save:      saveOptions{IncludeText: true},
			},
			CompletionProvider: &completionOptions{},
		},
		ServerInfo: serverInfo{Name: "pseudo", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	for _, uri := range s.ws.URIs() {
		s.ws.Close(uri)
	}
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

// didOpen analyzes synchronously: the first diagnostics of a document are
// published before the next request is read.
func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	_, err := s.ws.Update(s.context(), uri, params.TextDocument.Text, params.TextDocument.Version)
	if err != nil && !errors.Is(err, workspace.ErrSuperseded) {
		s.log.Warn("didOpen", "uri", uri, "err", err)
	}
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	text, _, _ := s.ws.Text(uri)
	text = applyChanges(text, params.ContentChanges)
	if err := s.ws.Submit(s.context(), uri, text, params.TextDocument.Version); err != nil {
		s.log.Warn("didChange", "uri", uri, "version", params.TextDocument.Version, "err", err)
	}
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	uri := canonicalURI(params.TextDocument.URI)
	text, ver, ok := s.ws.Text(uri)
	if !ok {
		return nil
	}
	if params.Text != nil {
		text = *params.Text
	}
	if err := s.ws.Submit(s.context(), uri, text, ver); err != nil {
		s.log.Warn("didSave", "uri", uri, "err", err)
	}
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.ws.Close(uri)
	s.mu.Lock()
	_, had := s.published[uri]
	delete(s.published, uri)
	s.mu.Unlock()
	if had {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.log.Warn("failed to clear diagnostics", "uri", uri, "err", err)
		}
	}
	return nil
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil || len(params.Settings) == 0 {
		return nil
	}
	var settings lspSettings
	if err := json.Unmarshal(params.Settings, &settings); err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v := settings.Pseudo.MaxDiagnostics; v != nil && *v > 0 {
		s.maxDiagnostics = *v
	}
	if v := settings.Pseudo.Completion.Limit; v != nil && *v >= 0 {
		s.completionLimit = *v
	}
	return nil
}

func (s *Server) invalidParams(msg *rpcMessage, err error) error {
	s.log.Warn("invalid params", "method", msg.Method, "err", err)
	if len(msg.ID) == 0 {
		return nil
	}
	return s.sendError(msg.ID, codeInvalidParams, "invalid params")
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	if len(id) == 0 {
		return s.sendError(nil, codeInvalidRequest, "request without id")
	}
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	var rawID any = id
	if len(id) == 0 {
		rawID = nil
	}
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      rawID,
		"error":   rpcError{Code: code, Message: message},
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}
