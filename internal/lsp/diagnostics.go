package lsp

import (
	"slices"

	"pseudo/internal/analysis"
	"pseudo/internal/diag"
)

// LSP DiagnosticSeverity values.
const (
	severityError   = 1
	severityWarning = 2
)

// publishResult is the workspace callback; it only sees latest versions.
func (s *Server) publishResult(uri string, res *analysis.Result) {
	s.mu.Lock()
	limit := s.maxDiagnostics
	s.mu.Unlock()

	list := toLSPDiagnostics(res, limit)
	version := res.Version
	if err := s.sendPublish(uri, &version, list); err != nil {
		s.log.Warn("publish failed", "uri", uri, "err", err)
		return
	}
	s.mu.Lock()
	s.published[uri] = struct{}{}
	s.mu.Unlock()
}

func toLSPDiagnostics(res *analysis.Result, limit int) []lspDiagnostic {
	diags := res.Diagnostics
	if limit > 0 && len(diags) > limit {
		diags = diags[:limit]
	}
	out := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		start, end := analysis.Range(res.File, d.Span)
		severity := severityWarning
		if d.Severity >= diag.SevError {
			severity = severityError
		}
		out = append(out, lspDiagnostic{
			Range: lspRange{
				Start: position(start),
				End:   position(end),
			},
			Severity: severity,
			Code:     d.Code.ID(),
			Source:   "pseudo",
			Message:  d.Message,
		})
	}
	return out
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: list,
		},
	})
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	s.published = make(map[string]struct{})
	s.mu.Unlock()

	slices.Sort(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.log.Warn("failed to clear diagnostics", "uri", uri, "err", err)
		}
	}
}
