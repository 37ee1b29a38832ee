package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pseudo/internal/analysis"
)

type request struct {
	ID     int    `json:"id,omitempty"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

func frame(t *testing.T, reqs ...request) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, r := range reqs {
		payload, err := json.Marshal(map[string]any{
			"jsonrpc": "2.0",
			"id":      r.ID,
			"method":  r.Method,
			"params":  r.Params,
		})
		if err != nil {
			t.Fatalf("marshal %s: %v", r.Method, err)
		}
		if r.ID == 0 {
			var m map[string]any
			_ = json.Unmarshal(payload, &m)
			delete(m, "id")
			payload, _ = json.Marshal(m)
		}
		if err := writeMessage(&buf, payload); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return &buf
}

func readAll(t *testing.T, out []byte) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if err != nil {
			return msgs
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func TestSessionLifecycle(t *testing.T) {
	const uri = "untitled:Untitled-1"
	in := frame(t,
		request{ID: 1, Method: "initialize", Params: map[string]any{}},
		request{Method: "initialized", Params: map[string]any{}},
		request{Method: "textDocument/didOpen", Params: didOpenTextDocumentParams{
			TextDocument: textDocumentItem{URI: uri, LanguageID: "pseudo", Version: 1, Text: "count = 1\nco"},
		}},
		request{ID: 2, Method: "textDocument/completion", Params: completionParams{
			TextDocument: textDocumentIdentifier{URI: uri},
			Position:     position{Line: 1, Character: 2},
		}},
		request{ID: 3, Method: "shutdown"},
		request{Method: "exit"},
	)
	var out bytes.Buffer
	server := NewServer(in, &out, ServerOptions{Debounce: time.Hour})
	if err := server.Run(context.Background()); !errors.Is(err, ErrExit) {
		t.Fatalf("run = %v, want ErrExit", err)
	}

	msgs := readAll(t, out.Bytes())
	if len(msgs) != 5 {
		t.Fatalf("got %d messages", len(msgs))
	}
	var init initializeResult
	if err := json.Unmarshal(msgs[0].Result, &init); err != nil {
		t.Fatalf("initialize result: %v", err)
	}
	if init.ServerInfo.Name != "pseudo" || init.Capabilities.CompletionProvider == nil {
		t.Fatalf("initialize = %+v", init)
	}

	if msgs[1].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("message 1 = %q", msgs[1].Method)
	}
	var pub publishDiagnosticsParams
	if err := json.Unmarshal(msgs[1].Params, &pub); err != nil {
		t.Fatalf("publish params: %v", err)
	}
	if pub.URI != uri || pub.Version == nil || *pub.Version != 1 {
		t.Fatalf("publish = %+v", pub)
	}

	var list completionList
	if err := json.Unmarshal(msgs[2].Result, &list); err != nil {
		t.Fatalf("completion result: %v", err)
	}
	if len(list.Items) == 0 || list.Items[0].Kind != completionItemKindKeyword || list.Items[0].SortText != "00000" {
		t.Fatalf("completion = %+v", list.Items)
	}
	var count *completionItem
	for i := range list.Items {
		if list.Items[i].Label == "count" {
			count = &list.Items[i]
		}
	}
	if count == nil || count.Kind != completionItemKindVariable {
		t.Fatalf("count missing: %+v", list.Items)
	}
	want := lspRange{Start: position{Line: 1, Character: 0}, End: position{Line: 1, Character: 2}}
	if count.TextEdit == nil || count.TextEdit.Range != want || count.TextEdit.NewText != "count" {
		t.Fatalf("text edit = %+v", count.TextEdit)
	}

	// shutdown clears what was published, then answers
	if msgs[3].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("message 3 = %q", msgs[3].Method)
	}
	var cleared publishDiagnosticsParams
	if err := json.Unmarshal(msgs[3].Params, &cleared); err != nil {
		t.Fatalf("clear params: %v", err)
	}
	if cleared.URI != uri || len(cleared.Diagnostics) != 0 || cleared.Version != nil {
		t.Fatalf("clear = %+v", cleared)
	}
	if string(msgs[4].ID) != "3" || msgs[4].Error != nil {
		t.Fatalf("shutdown response = %+v", msgs[4])
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	in := frame(t, request{Method: "exit"})
	server := NewServer(in, &bytes.Buffer{}, ServerOptions{})
	if err := server.Run(context.Background()); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("run = %v", err)
	}
}

func TestUnknownRequest(t *testing.T) {
	in := frame(t, request{ID: 7, Method: "textDocument/hover"}, request{Method: "$/cancelRequest"})
	var out bytes.Buffer
	server := NewServer(in, &out, ServerOptions{})
	if err := server.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	msgs := readAll(t, out.Bytes())
	if len(msgs) != 1 || msgs[0].Error == nil || msgs[0].Error.Code != codeMethodNotFound {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestCompletionWithoutDocument(t *testing.T) {
	in := frame(t, request{ID: 1, Method: "textDocument/completion", Params: completionParams{
		TextDocument: textDocumentIdentifier{URI: "untitled:nothing"},
	}})
	var out bytes.Buffer
	if err := NewServer(in, &out, ServerOptions{}).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	msgs := readAll(t, out.Bytes())
	var list completionList
	if len(msgs) != 1 || json.Unmarshal(msgs[0].Result, &list) != nil || len(list.Items) != 0 {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestDiagnosticsMapping(t *testing.T) {
	res := analysis.Analyze("log \"unterminated\nprint 2\n", 4, analysis.Options{})
	got := toLSPDiagnostics(res, 0)
	var fatal *lspDiagnostic
	for i := range got {
		if got[i].Severity == severityError {
			fatal = &got[i]
		}
		if got[i].Source != "pseudo" {
			t.Fatalf("source = %q", got[i].Source)
		}
	}
	if fatal == nil || fatal.Code != "LEX1002" {
		t.Fatalf("diagnostics = %+v", got)
	}
	if fatal.Range.Start != (position{Line: 0, Character: 4}) {
		t.Fatalf("start = %+v", fatal.Range.Start)
	}

	warn := toLSPDiagnostics(analysis.Analyze("function test() var x to 1", 1, analysis.Options{}), 0)
	if len(warn) != 1 || warn[0].Severity != severityWarning || warn[0].Code != "SYN2002" {
		t.Fatalf("warnings = %+v", warn)
	}
}

func TestConfigurationChangesLimits(t *testing.T) {
	in := frame(t, request{Method: "workspace/didChangeConfiguration", Params: map[string]any{
		"settings": map[string]any{"pseudo": map[string]any{
			"maxDiagnostics": 3,
			"completion":     map[string]any{"limit": 2},
		}},
	}})
	server := NewServer(in, &bytes.Buffer{}, ServerOptions{})
	if err := server.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if server.maxDiagnostics != 3 || server.completionLimit != 2 {
		t.Fatalf("limits = %d %d", server.maxDiagnostics, server.completionLimit)
	}
}

func TestCompletionUsesBufferAheadOfAnalysis(t *testing.T) {
	const uri = "untitled:typing"
	in := frame(t,
		request{Method: "textDocument/didOpen", Params: didOpenTextDocumentParams{
			TextDocument: textDocumentItem{URI: uri, LanguageID: "pseudo", Version: 1, Text: "x = 1\n"},
		}},
		// analysis of v2 waits for the debounce, which never fires here
		request{Method: "textDocument/didChange", Params: didChangeTextDocumentParams{
			TextDocument:   versionedTextDocumentIdentifier{URI: uri, Version: 2},
			ContentChanges: []textDocumentContentChangeEvent{{Text: "x = 1\nfun"}},
		}},
		request{ID: 1, Method: "textDocument/completion", Params: completionParams{
			TextDocument: textDocumentIdentifier{URI: uri},
			Position:     position{Line: 1, Character: 3},
		}},
	)
	var out bytes.Buffer
	if err := NewServer(in, &out, ServerOptions{Debounce: time.Hour}).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	var list completionList
	for _, msg := range readAll(t, out.Bytes()) {
		if string(msg.ID) == "1" {
			if err := json.Unmarshal(msg.Result, &list); err != nil {
				t.Fatalf("completion result: %v", err)
			}
		}
	}
	if len(list.Items) == 0 || list.Items[0].Label != "function" {
		t.Fatalf("completion = %+v", list.Items)
	}
	want := lspRange{Start: position{Line: 1, Character: 0}, End: position{Line: 1, Character: 3}}
	for _, it := range list.Items {
		if it.TextEdit == nil || it.TextEdit.Range != want {
			t.Fatalf("%s: text edit = %+v", it.Label, it.TextEdit)
		}
		if it.Label == "x" {
			t.Fatalf("unfiltered variable offered: %+v", list.Items)
		}
	}
}
