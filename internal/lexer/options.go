package lexer

import (
	"pseudo/internal/diag"
	"pseudo/internal/keywords"
	"pseudo/internal/source"
)

type Options struct {
	Reporter diag.Reporter      // может быть nil: тогда находки игнорируем (но продолжаем лексить)
	Registry *keywords.Registry // nil означает keywords.Default()
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, tmpl string, args ...string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.NewReportBuilder(lx.opts.Reporter, diag.OriginLexer, sev, code, sp, tmpl, args...).Emit()
}
