package parser

import (
	"pseudo/internal/ast"
	"pseudo/internal/diag"
	"pseudo/internal/keywords"
	"pseudo/internal/scope"
	"pseudo/internal/token"
)

func (p *Parser) parseConstruct(c *scope.Construct) ast.NodeID {
	opener := p.toks[c.Opener]
	switch {
	case c.Unmatched >= 0:
		p.report(diag.SynMissingCloser, p.toks[c.Unmatched].Span,
			"'{' after '%s' has no matching '}'", opener.Text)
	case c.Missing:
		where := "end of enclosing block"
		if c.End() >= len(p.toks) {
			where = "end of file"
		}
		p.report(diag.SynMissingCloser, opener.Span,
			"missing closer for '%s'; block closed at %s", opener.Text, where)
	}

	var id ast.NodeID
	switch c.Concept {
	case keywords.FunctionDecl:
		id = p.parseFunction(c)
	case keywords.ComponentDecl:
		id = p.parseComponent(c)
	case keywords.If:
		id = p.parseIf(c)
	case keywords.For:
		id = p.parseFor(c)
	case keywords.While:
		id = p.parseWhile(c)
	case keywords.Do:
		id = p.parseDo(c)
	default:
		return p.unexpected()
	}

	if n := p.tree.Get(id); n != nil {
		n.Style = c.Style
		n.Closed = !c.Missing
		if c.Inline {
			n.Flags |= ast.FlagInline
		}
	}
	p.finish(c)
	return id
}

// finish moves past the closer (and what trails it) of c.
func (p *Parser) finish(c *scope.Construct) {
	if c.Close >= 0 && c.Style == scope.KeywordDelimited && p.pos <= c.Close && c.Close < p.limit {
		p.pos = c.Close + 1
		// "next i"
		closer := p.toks[c.Close]
		if closer.Is(keywords.EndFor) && p.at().Kind == token.Ident && !p.at().LineStart() {
			p.pos++
		}
	}
	if c.Redundant >= 0 && c.Redundant < p.limit {
		p.pos = max(p.pos, c.Redundant+1)
	}
	p.pos = max(p.pos, min(c.End(), p.limit))
}

// withHeader runs fn with the cursor limited to the header of seg: the
// tokens after its marker up to the body, without a trailing '{', ':',
// 'then' or 'do'. It reports what fn left over when strict is set.
func (p *Parser) withHeader(seg scope.Segment, strict bool, fn func()) {
	end := seg.BodyStart
	if end-1 > seg.Marker && end-1 < len(p.toks) {
		t := p.toks[end-1]
		if t.IsPunct("{") || t.IsPunct(":") || t.Is(keywords.Then) || t.Is(keywords.Do) {
			end--
		}
	}
	saved := p.limit
	p.limit = min(end, saved)
	p.pos = seg.Marker + 1
	fn()
	if strict && !p.done() {
		tok := p.at()
		p.report(diag.SynUnexpectedToken, p.span(p.pos, p.limit), "unexpected %s in header", describe(tok))
	}
	p.limit = saved
	p.pos = seg.BodyStart
}

func (p *Parser) parseBody(seg scope.Segment) ast.NodeID {
	p.pos = seg.BodyStart
	stmts := p.parseStmts(seg.BodyEnd)
	sp := p.span(seg.BodyStart, seg.BodyEnd)
	if seg.BodyStart >= seg.BodyEnd {
		sp = p.pointSpan(seg.BodyStart)
	}
	id := p.tree.New(ast.KindBlock, sp)
	p.tree.Get(id).Children = stmts
	if seg.Close >= 0 && seg.Close < p.limit {
		p.pos = max(p.pos, seg.Close+1)
	}
	return id
}

func (p *Parser) parseFunction(c *scope.Construct) ast.NodeID {
	seg := c.Segments[0]
	var (
		name   string
		params []ast.NodeID
	)
	p.withHeader(seg, false, func() {
		name = p.declName("function")
		params = p.parseParams()
	})
	body := p.parseBody(seg)

	id := p.tree.New(ast.KindFunctionDecl, p.span(c.Opener, c.End()))
	n := p.tree.Get(id)
	n.Name = name
	n.Children = append(params, body)
	return id
}

func (p *Parser) parseComponent(c *scope.Construct) ast.NodeID {
	seg := c.Segments[0]
	var name string
	p.withHeader(seg, false, func() {
		name = p.declName("component")
	})
	body := p.parseBody(seg)

	id := p.tree.New(ast.KindComponentDecl, p.span(c.Opener, c.End()))
	n := p.tree.Get(id)
	n.Name = name
	n.Children = []ast.NodeID{body}
	return id
}

func (p *Parser) declName(what string) string {
	if p.at().Kind == token.Ident {
		return p.advance().Text
	}
	p.report(diag.SynExpectIdentifier, p.curSpan(), "expected %s name", what)
	return ""
}

// parseParams parses "(a, b: int, c)". Each comma separated group becomes
// a Param named by its first identifier; types and defaults are skipped.
func (p *Parser) parseParams() []ast.NodeID {
	if !p.at().IsPunct("(") {
		return nil
	}
	open := p.advance()
	var params []ast.NodeID
	depth := 0
	groupStart := p.pos
	name, nameSpan := "", open.Span
	flush := func() {
		if name != "" {
			id := p.tree.New(ast.KindParam, nameSpan.Cover(p.span(groupStart, p.pos)))
			p.tree.Get(id).Name = name
			params = append(params, id)
		}
		name = ""
	}
	for !p.done() {
		t := p.at()
		switch {
		case t.IsPunct("(") || t.IsPunct("["):
			depth++
		case (t.IsPunct(")") || t.IsPunct("]")) && depth > 0:
			depth--
		case t.IsPunct(")"):
			flush()
			p.advance()
			return params
		case t.IsPunct(",") && depth == 0:
			flush()
			p.advance()
			groupStart = p.pos
			continue
		case t.Kind == token.Ident && name == "" && depth == 0:
			name, nameSpan = t.Text, t.Span
		}
		p.advance()
	}
	flush()
	p.report(diag.SynUnclosedParen, open.Span, "unclosed '(' in parameter list")
	return params
}

type branch struct {
	marker int
	cond   ast.NodeID
	body   ast.NodeID
}

func (p *Parser) parseIf(c *scope.Construct) ast.NodeID {
	branches := make([]branch, 0, len(c.Segments))
	for _, seg := range c.Segments {
		b := branch{marker: seg.Marker}
		if !p.toks[seg.Marker].Is(keywords.Else) {
			p.withHeader(seg, true, func() {
				b.cond = p.condition()
			})
		}
		b.body = p.parseBody(seg)
		branches = append(branches, b)
	}

	end := c.End()
	elseID := ast.NoNodeID
	for i := len(branches) - 1; i >= 0; i-- {
		b := branches[i]
		marker := p.toks[b.marker]
		if marker.Is(keywords.Else) && i == len(branches)-1 && i > 0 {
			elseID = b.body
			continue
		}
		if marker.Is(keywords.Else) {
			p.report(diag.SynUnexpectedToken, marker.Span, "'%s' is not the last branch", marker.Text)
		}
		id := p.tree.New(ast.KindIfStmt, p.span(b.marker, end))
		n := p.tree.Get(id)
		n.Style = c.Style
		n.Closed = !c.Missing
		if c.Inline {
			n.Flags |= ast.FlagInline
		}
		n.Children = []ast.NodeID{b.cond, b.body, elseID}
		elseID = id
	}
	return elseID
}

// condition parses the rest of a header as a condition.
func (p *Parser) condition() ast.NodeID {
	if p.done() {
		p.report(diag.SynMissingCondition, p.pointSpan(p.pos), "missing condition")
		return ast.NoNodeID
	}
	return p.parseCond()
}

func (p *Parser) parseWhile(c *scope.Construct) ast.NodeID {
	seg := c.Segments[0]
	var cond ast.NodeID
	p.withHeader(seg, true, func() {
		cond = p.condition()
	})
	body := p.parseBody(seg)

	id := p.tree.New(ast.KindWhileStmt, p.span(c.Opener, c.End()))
	p.tree.Get(id).Children = []ast.NodeID{cond, body}
	return id
}

// parseDo parses "do ... until|while cond" and "repeat ... until cond".
func (p *Parser) parseDo(c *scope.Construct) ast.NodeID {
	seg := c.Segments[0]
	p.withHeader(seg, true, func() {})
	body := p.parseBody(seg)

	flags := ast.FlagPostTest
	tail := -1
	switch {
	case c.Trailer >= 0:
		tail = c.Trailer
	case c.Close >= 0 && p.toks[c.Close].Is(keywords.Until):
		tail = c.Close
	}
	cond := ast.NoNodeID
	end := c.End()
	if tail >= 0 && tail < p.limit {
		if p.toks[tail].Is(keywords.Until) {
			flags |= ast.FlagNegated
		}
		p.pos = tail + 1
		if p.atStmtEnd() {
			p.report(diag.SynMissingCondition, p.toks[tail].Span, "missing condition after '%s'", p.toks[tail].Text)
		} else {
			cond = p.parseCond()
		}
		end = max(end, p.pos)
	}

	id := p.tree.New(ast.KindWhileStmt, p.span(c.Opener, end))
	n := p.tree.Get(id)
	n.Flags = flags
	n.Children = []ast.NodeID{cond, body}
	return id
}

func (p *Parser) parseFor(c *scope.Construct) ast.NodeID {
	seg := c.Segments[0]
	var (
		name  string
		kind  ast.ForKind
		slots [3]ast.NodeID
	)
	p.withHeader(seg, true, func() {
		name, kind, slots = p.parseForHeader()
	})
	body := p.parseBody(seg)

	id := p.tree.New(ast.KindForStmt, p.span(c.Opener, c.End()))
	n := p.tree.Get(id)
	n.Name = name
	n.For = kind
	n.Children = []ast.NodeID{slots[0], slots[1], slots[2], body}
	return id
}

// parseForHeader распознаёт три формы заголовка:
//
//	for each x in xs
//	for i from a to b step c / for i = a to b
//	for (init; cond; post)
func (p *Parser) parseForHeader() (name string, kind ast.ForKind, slots [3]ast.NodeID) {
	if p.at().IsPunct("(") && p.hasPunct(";") {
		return "", ast.ForClassic, p.parseClassicFor()
	}
	paren := p.eatPunct("(")
	p.eat(keywords.VarDecl)
	if p.at().Kind != token.Ident {
		p.report(diag.SynForBadHeader, p.curSpan(), "expected loop variable")
		p.pos = p.limit
		return "", ast.ForNone, slots
	}
	name = p.advance().Text

	switch {
	case p.eat(keywords.In):
		kind = ast.ForEach
		slots[0] = p.parseExpr()
	case p.eat(keywords.From) || p.eat(keywords.Assign):
		kind = ast.ForRange
		slots[0] = p.parseOperand()
		if p.eat(keywords.Assign) {
			slots[1] = p.parseOperand()
		} else {
			// "for i to 10": only the upper bound is given
			slots[0], slots[1] = ast.NoNodeID, slots[0]
		}
		if p.eat(keywords.Step) {
			slots[2] = p.parseOperand()
		}
	default:
		p.report(diag.SynForBadHeader, p.curSpan(), "expected 'in', 'from' or '=' after loop variable '%s'", name)
		p.pos = p.limit
		return name, ast.ForNone, slots
	}
	if paren && !p.eatPunct(")") {
		p.report(diag.SynUnclosedParen, p.curSpan(), "unclosed '(' in loop header")
	}
	return name, kind, slots
}

func (p *Parser) parseClassicFor() [3]ast.NodeID {
	var slots [3]ast.NodeID
	open := p.advance()
	p.parenDeep++
	defer func() { p.parenDeep-- }()

	p.eat(keywords.VarDecl)
	if !p.at().IsPunct(";") {
		slots[0] = p.parseExpr()
	}
	if !p.eatPunct(";") {
		p.report(diag.SynForBadHeader, p.curSpan(), "expected ';' after loop initializer")
		return slots
	}
	if !p.at().IsPunct(";") {
		slots[1] = p.parseCond()
	}
	if !p.eatPunct(";") {
		p.report(diag.SynForBadHeader, p.curSpan(), "expected ';' after loop condition")
		return slots
	}
	if !p.at().IsPunct(")") {
		slots[2] = p.parseExpr()
	}
	if !p.eatPunct(")") {
		p.report(diag.SynUnclosedParen, open.Span, "unclosed '(' in loop header")
	}
	return slots
}

func (p *Parser) hasPunct(s string) bool {
	for i := p.pos; i < p.limit; i++ {
		if p.toks[i].IsPunct(s) {
			return true
		}
	}
	return false
}
