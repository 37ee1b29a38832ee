package lsp

import (
	"encoding/json"
	"fmt"

	"pseudo/internal/analysis"
	"pseudo/internal/complete"
)

// LSP CompletionItemKind values.
const (
	completionItemKindFunction = 3
	completionItemKindVariable = 6
	completionItemKindClass    = 7
	completionItemKindKeyword  = 14
	completionItemKindSnippet  = 15
)

// LSP InsertTextFormat values.
const (
	insertPlainText = 1
	insertSnippet   = 2
)

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params completionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	uri := canonicalURI(params.TextDocument.URI)
	// the last completed analysis, possibly older than the buffer
	res, ok := s.ws.Snapshot(uri)
	if !ok {
		return s.sendResponse(msg.ID, completionList{Items: []completionItem{}})
	}
	// cursor and prefix follow the buffer; only names come from the snapshot
	if text, ver, ok := s.ws.Text(uri); ok && ver != res.Version {
		res = analysis.Relex(res, text, ver)
	}
	s.mu.Lock()
	limit := s.completionLimit
	s.mu.Unlock()
	return s.sendResponse(msg.ID, buildCompletion(res, params.Position, limit))
}

func buildCompletion(res *analysis.Result, pos position, limit int) completionList {
	offset := res.Offset(pos.Line, pos.Character)
	items := res.CompleteAt(offset)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	start := res.PositionOf(complete.WordStart(res.Tokens, offset))
	end := res.PositionOf(offset)
	replace := lspRange{Start: position(start), End: position(end)}

	out := make([]completionItem, 0, len(items))
	for _, it := range items {
		format := insertPlainText
		if it.Snippet {
			format = insertSnippet
		}
		out = append(out, completionItem{
			Label:  it.Label,
			Kind:   completionKind(it.Kind),
			Detail: it.Detail,
			// the client must keep our order
			SortText:         fmt.Sprintf("%05d", it.Priority),
			FilterText:       it.Label,
			InsertTextFormat: format,
			TextEdit:         &textEdit{Range: replace, NewText: it.Insert},
		})
	}
	return completionList{Items: out}
}

func completionKind(k complete.Kind) int {
	switch k {
	case complete.KindKeyword:
		return completionItemKindKeyword
	case complete.KindSnippet:
		return completionItemKindSnippet
	case complete.KindFunction:
		return completionItemKindFunction
	case complete.KindComponent:
		return completionItemKindClass
	}
	return completionItemKindVariable
}
