package parser

import (
	"pseudo/internal/ast"
	"pseudo/internal/diag"
	"pseudo/internal/keywords"
	"pseudo/internal/source"
	"pseudo/internal/token"
)

// at возвращает текущий токен; за пределами блока: пустой токен.
func (p *Parser) at() token.Token {
	return p.peekAt(p.pos)
}

func (p *Parser) peekAt(i int) token.Token {
	if i < 0 || i >= p.limit || i >= len(p.toks) {
		return token.Token{}
	}
	return p.toks[i]
}

func (p *Parser) done() bool {
	return p.pos >= p.limit
}

func (p *Parser) advance() token.Token {
	tok := p.at()
	if !p.done() {
		p.pos++
	}
	return tok
}

// eat consumes the current token when it resolved to c.
func (p *Parser) eat(c keywords.Concept) bool {
	if p.at().Is(c) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) eatPunct(s string) bool {
	if p.at().IsPunct(s) {
		p.pos++
		return true
	}
	return false
}

// span covers tokens [from, to).
func (p *Parser) span(from, to int) source.Span {
	if from >= to || from >= len(p.toks) {
		return p.pointSpan(from)
	}
	to = min(to, len(p.toks))
	return p.toks[from].Span.Cover(p.toks[to-1].Span)
}

// pointSpan is an empty span just after the token before i.
func (p *Parser) pointSpan(i int) source.Span {
	switch {
	case i > 0 && i-1 < len(p.toks):
		return p.toks[i-1].Span.ZeroideToEnd()
	case i < len(p.toks):
		return p.toks[i].Span.ZeroideToStart()
	case p.file != nil:
		return source.Span{File: p.file.ID}
	}
	return source.Span{}
}

// curSpan is the span of the current token, or the point after the last one.
func (p *Parser) curSpan() source.Span {
	if p.done() {
		return p.pointSpan(p.pos)
	}
	return p.toks[p.pos].Span
}

func (p *Parser) text(sp source.Span) string {
	if p.file == nil {
		return ""
	}
	return p.file.Text(sp)
}

func (p *Parser) report(code diag.Code, sp source.Span, tmpl string, args ...string) {
	if p.opts.Reporter == nil || p.truncated {
		return
	}
	if p.opts.MaxFindings > 0 && p.findings >= p.opts.MaxFindings {
		p.truncated = true
		diag.ReportWarning(p.opts.Reporter, diag.OriginParser, diag.SynTooManyFindings, sp,
			"too many syntax findings; the rest are suppressed").Emit()
		return
	}
	p.findings++
	diag.ReportWarning(p.opts.Reporter, diag.OriginParser, code, sp, tmpl, args...).Emit()
}

// boundary returns the index of the next statement boundary after i:
// a token opening a line, a statement or closing keyword, '}' or ';'.
func (p *Parser) boundary(i int) int {
	j := i + 1
	for ; j < p.limit; j++ {
		t := p.toks[j]
		if t.LineStart() || t.IsPunct("}") || t.IsPunct(";") || isStmtKeyword(t) {
			break
		}
	}
	return j
}

func isStmtKeyword(t token.Token) bool {
	if t.Kind != token.Keyword {
		return false
	}
	return keywords.StartsStatement(t.Concept) || keywords.IsCloser(t.Concept) ||
		t.Is(keywords.Else) || t.Is(keywords.ElseIf)
}

// unexpected reports the current token and wraps it, up to the next
// statement boundary, in an Unknown node.
func (p *Parser) unexpected() ast.NodeID {
	tok := p.at()
	p.report(diag.SynUnexpectedToken, tok.Span, "unexpected %s", describe(tok))
	return p.wrapUnknown()
}

// wrapUnknown consumes tokens up to the next boundary into an Unknown node.
func (p *Parser) wrapUnknown() ast.NodeID {
	start := p.pos
	end := p.boundary(start)
	sp := p.span(start, end)
	id := p.tree.New(ast.KindUnknown, sp)
	p.tree.Get(id).Text = p.text(sp)
	p.pos = end
	return id
}

// stmtEnd checks that the statement ended where a statement may end.
// Leftover tokens on the same line become an Unknown node.
func (p *Parser) stmtEnd() ast.NodeID {
	if p.done() {
		return ast.NoNodeID
	}
	t := p.at()
	if t.LineStart() || t.IsPunct("}") || isStmtKeyword(t) {
		return ast.NoNodeID
	}
	if p.eatPunct(";") {
		return ast.NoNodeID
	}
	return p.unexpected()
}

// atStmtEnd reports whether nothing of the current statement remains.
func (p *Parser) atStmtEnd() bool {
	if p.done() {
		return true
	}
	t := p.at()
	return t.LineStart() || t.IsPunct(";") || t.IsPunct("}") || isStmtKeyword(t)
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.Invalid:
		return "end of block"
	case token.Keyword:
		return "keyword '" + t.Text + "'"
	case token.Literal:
		if t.Lit == token.LitString {
			return "string"
		}
		return "literal " + t.Text
	case token.Ident:
		return "identifier '" + t.Text + "'"
	}
	return "'" + t.Text + "'"
}
