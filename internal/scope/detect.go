package scope

import (
	"sort"

	"pseudo/internal/keywords"
	"pseudo/internal/token"
)

// Segment is one branch of a construct: the opener itself, or an
// else-if / else marker of an if chain.
type Segment struct {
	Marker    int // index of the opener or branch keyword
	BodyStart int
	BodyEnd   int // exclusive
	Close     int // '}' closing this branch, -1 otherwise
}

// Construct is the resolved shape of one block-opening keyword.
// All indices refer to Result.Tokens.
type Construct struct {
	Opener    int
	Concept   keywords.Concept
	Style     Style
	Inline    bool
	Segments  []Segment
	Close     int  // final closer ('}' or keyword), -1 when absent
	Redundant int  // keyword closer repeating a brace close, -1 if none
	Trailer   int  // while/until after a brace-closed do block, -1 if none
	Unmatched int  // header '{' without a matching '}', -1 if none
	Missing   bool // a closer was expected and never found
	Depth     int
}

// End returns the index just past the construct.
func (c *Construct) End() int {
	end := c.Opener + 1
	if n := len(c.Segments); n > 0 {
		end = max(end, c.Segments[n-1].BodyEnd)
	}
	for _, x := range [...]int{c.Close, c.Redundant, c.Trailer} {
		if x >= 0 {
			end = max(end, x+1)
		}
	}
	return end
}

// Result is the detection outcome for one token stream.
type Result struct {
	Tokens     []token.Token // significant tokens
	File       Style
	Constructs map[int]*Construct
	Blocks     []*Construct // top-level constructs in source order
	Evidence   *Evidence
	Summary    Classification
}

// Construct returns the construct opened at significant index i, or nil.
func (r *Result) Construct(i int) *Construct {
	if r == nil {
		return nil
	}
	return r.Constructs[i]
}

// StyleAt returns the style of the construct opened at i.
func (r *Result) StyleAt(i int) (Style, bool) {
	c := r.Construct(i)
	if c == nil {
		return Mixed, false
	}
	return c.Style, true
}

type detector struct {
	toks     []token.Token
	n        int
	cons     map[int]*Construct
	consumed []bool // header/trailer tokens that can no longer open a construct
	ev       *Evidence
	scans    int // enclosing findCloser calls in progress
}

// Detect classifies the scoping of every construct in tokens (trivia is
// ignored) and of the file as a whole.
func Detect(tokens []token.Token) *Result {
	sig := token.Significant(tokens)
	d := &detector{
		toks:     sig,
		n:        len(sig),
		cons:     make(map[int]*Construct),
		consumed: make([]bool, len(sig)),
		ev:       NewEvidence(),
	}

	var blocks []*Construct
	for i := 0; i < d.n; {
		if d.isOpenerAt(i) {
			c := d.resolve(i)
			blocks = append(blocks, c)
			i = max(c.End(), i+1)
			continue
		}
		i++
	}
	// openers inside brace bodies are not visited by the scans above
	for i := 0; i < d.n; i++ {
		if d.isOpenerAt(i) {
			d.resolve(i)
		}
	}
	d.assignDepth()

	res := &Result{
		Tokens:     sig,
		Constructs: d.cons,
		Blocks:     blocks,
		Evidence:   d.ev,
	}
	res.File = d.fileStyle(blocks)
	res.Summary = Classifier{}.Classify(d.ev)
	return res
}

func (d *detector) isOpenerAt(i int) bool {
	t := d.toks[i]
	return t.Kind == token.Keyword && keywords.IsOpener(t.Concept) && !d.consumed[i]
}

func (d *detector) resolve(i int) *Construct {
	if c, ok := d.cons[i]; ok {
		return c
	}
	c := &Construct{
		Opener:    i,
		Concept:   d.toks[i].Concept,
		Close:     -1,
		Redundant: -1,
		Trailer:   -1,
		Unmatched: -1,
	}
	d.cons[i] = c

	bodyStart, term := d.header(i)
	if term.kind == termBrace {
		d.resolveBraces(c, bodyStart, term.idx)
	} else {
		d.resolveOpen(c, bodyStart)
	}
	d.addHint(c)
	return c
}

func (d *detector) resolveBraces(c *Construct, bodyStart, open int) {
	closeIdx := d.matchBrace(open)
	if closeIdx < 0 {
		// без пары '{' не задаёт стиль: пробуем закрывающее слово и отступ
		c.Unmatched = open
		d.resolveOpen(c, bodyStart)
		return
	}
	c.Style = Braces
	c.Segments = append(c.Segments, Segment{Marker: c.Opener, BodyStart: bodyStart, BodyEnd: closeIdx, Close: closeIdx})
	c.Close = closeIdx

	if c.Concept == keywords.If {
		d.braceChain(c)
	}
	if c.Close < 0 || c.Close+1 >= d.n {
		return
	}
	after := c.Close + 1
	t := d.toks[after]
	switch {
	case c.Concept == keywords.Do && (t.Is(keywords.While) || t.Is(keywords.Until)) && d.sameLine(c.Close, after):
		c.Trailer = after
		d.consumed[after] = true
	case t.Is(keywords.End):
		if d.redundantEnd(c, after) {
			c.Redundant = after
			d.consumed[after] = true
		}
	case t.Kind == token.Keyword && keywords.Closes(c.Concept, t.Concept):
		c.Redundant = after
		d.consumed[after] = true
	}
}

// redundantEnd reports whether a generic end right after the '}' of c
// repeats that close. Inside an enclosing keyword scan the end belongs to
// the enclosing construct.
func (d *detector) redundantEnd(c *Construct, end int) bool {
	if d.scans > 0 {
		return false
	}
	t := d.toks[end]
	return d.sameLine(c.Close, end) || (t.LineStart() && t.Indent == d.toks[c.Opener].Indent)
}

// braceChain extends a brace-closed if with following else-if / else branches.
func (d *detector) braceChain(c *Construct) {
	for k := c.Close + 1; k < d.n && d.isBranch(k); {
		bodyStart, term := d.header(k)
		if term.kind != termBrace {
			c.Segments = append(c.Segments, Segment{Marker: k, BodyStart: bodyStart, BodyEnd: d.looseEnd(k, bodyStart), Close: -1})
			return
		}
		closeIdx := d.matchBrace(term.idx)
		if closeIdx < 0 {
			c.Missing = true
			c.Close = -1
			c.Segments = append(c.Segments, Segment{Marker: k, BodyStart: bodyStart, BodyEnd: d.n, Close: -1})
			return
		}
		c.Segments = append(c.Segments, Segment{Marker: k, BodyStart: bodyStart, BodyEnd: closeIdx, Close: closeIdx})
		c.Close = closeIdx
		k = closeIdx + 1
	}
}

func (d *detector) resolveOpen(c *Construct, bodyStart int) {
	i := c.Opener
	inlineCand := inlineCapable(c.Concept) && bodyStart < d.n && d.sameLine(i, bodyStart)
	closer, stop, markers := d.findCloser(i, bodyStart)

	if closer >= 0 && (!inlineCand || d.sameLine(i, closer) || d.closesOnNextLine(c.Concept, i, closer)) {
		c.Style = KeywordDelimited
		c.Close = closer
		c.Segments = d.markerSegments(i, bodyStart, markers, closer)
		return
	}

	if inlineCand {
		c.Inline = true
		c.Segments = d.inlineSegments(c, bodyStart, stop)
		return
	}

	if bodyStart < d.n && !d.sameLine(i, bodyStart) && d.toks[bodyStart].Indent > d.toks[i].Indent {
		c.Style = Indentation
		end := min(d.indentEnd(i, bodyStart), stop)
		c.Segments = append(c.Segments, Segment{Marker: i, BodyStart: bodyStart, BodyEnd: end, Close: -1})
		if c.Concept == keywords.If {
			d.indentChain(c, end)
		}
		return
	}

	c.Style = Mixed
	c.Missing = true
	c.Segments = d.markerSegments(i, bodyStart, markers, stop)
}

// markerSegments splits [bodyStart, end) at the else-if / else markers.
func (d *detector) markerSegments(opener, bodyStart int, markers []int, end int) []Segment {
	segs := make([]Segment, 0, len(markers)+1)
	marker, start := opener, bodyStart
	for _, m := range markers {
		if m >= end {
			break
		}
		segs = append(segs, Segment{Marker: marker, BodyStart: start, BodyEnd: m, Close: -1})
		marker = m
		start, _ = d.header(m)
	}
	return append(segs, Segment{Marker: marker, BodyStart: min(start, end), BodyEnd: end, Close: -1})
}

// inlineSegments splits a one-line body at else markers on the same line.
// An if nested on the line takes the rest of it, so a dangling else binds
// to the nearest if. The body never runs past stop.
func (d *detector) inlineSegments(c *Construct, bodyStart, stop int) []Segment {
	lineEnd := min(d.lineEnd(c.Opener), stop)
	var segs []Segment
	marker, start := c.Opener, bodyStart
	if c.Concept == keywords.If {
		depth := 0
	scan:
		for j := bodyStart; j < lineEnd; j++ {
			t := d.toks[j]
			switch {
			case t.IsPunct("(") || t.IsPunct("{") || t.IsPunct("["):
				depth++
			case t.IsPunct(")") || t.IsPunct("}") || t.IsPunct("]"):
				depth = max(depth-1, 0)
			case depth > 0 || d.consumed[j]:
			case t.Is(keywords.If):
				break scan
			case t.Is(keywords.Else) || t.Is(keywords.ElseIf):
				segs = append(segs, Segment{Marker: marker, BodyStart: start, BodyEnd: j, Close: -1})
				marker = j
				start, _ = d.header(j)
				j = start - 1
			}
		}
	}
	return append(segs, Segment{Marker: marker, BodyStart: min(start, lineEnd), BodyEnd: lineEnd, Close: -1})
}

// indentChain extends an indentation if with else-if / else branches at
// the same indentation.
func (d *detector) indentChain(c *Construct, k int) {
	indent := d.toks[c.Opener].Indent
	for k < d.n && d.isBranch(k) && d.toks[k].LineStart() && d.toks[k].Indent == indent {
		bodyStart, _ := d.header(k)
		end := d.looseEnd(k, bodyStart)
		c.Segments = append(c.Segments, Segment{Marker: k, BodyStart: bodyStart, BodyEnd: end, Close: -1})
		k = end
	}
}

// looseEnd is the end of a branch body that is neither braced nor keyword closed:
// the rest of the line, or the deeper indented lines that follow.
func (d *detector) looseEnd(marker, bodyStart int) int {
	switch {
	case bodyStart >= d.n:
		return d.n
	case d.sameLine(marker, bodyStart):
		return d.lineEnd(marker)
	case d.toks[bodyStart].Indent > d.toks[marker].Indent:
		return d.indentEnd(marker, bodyStart)
	default:
		return bodyStart
	}
}

// findCloser scans for the keyword closing opener i. Nested constructs are
// resolved first and skipped. It returns the closer (-1 if none), the index
// where the scan stopped, and the else-if/else markers of an if chain.
func (d *detector) findCloser(i, start int) (closer, stop int, markers []int) {
	d.scans++
	defer func() { d.scans-- }()
	c := d.toks[i].Concept
	openIndent := d.toks[i].Indent
	braces := 0
	for j := start; j < d.n; {
		t := d.toks[j]
		switch {
		case t.IsPunct("{"):
			braces++
			j++
			continue
		case t.IsPunct("}"):
			if braces == 0 {
				return -1, j, markers
			}
			braces--
			j++
			continue
		case braces > 0:
			j++
			continue
		}
		if j != i && d.isOpenerAt(j) {
			if d.siblingStops(c, openIndent, j) {
				return -1, j, markers
			}
			sub := d.resolve(j)
			j = max(sub.End(), j+1)
			continue
		}
		if d.consumed[j] || t.Kind != token.Keyword {
			j++
			continue
		}
		switch {
		case keywords.Closes(c, t.Concept):
			if t.Is(keywords.End) && t.LineStart() && t.Indent < openIndent {
				return -1, j, markers
			}
			return j, j, markers
		case keywords.IsCloser(t.Concept):
			return -1, j, markers
		case t.Is(keywords.Else) || t.Is(keywords.ElseIf):
			if c != keywords.If || (t.LineStart() && t.Indent < openIndent) {
				return -1, j, markers
			}
			markers = append(markers, j)
		}
		j++
	}
	return -1, d.n, markers
}

// siblingStops reports whether a declaration at j starts a sibling of the
// construct being scanned rather than a nested one.
func (d *detector) siblingStops(c keywords.Concept, openIndent, j int) bool {
	t := d.toks[j]
	if !t.LineStart() || t.Indent > openIndent {
		return false
	}
	switch t.Concept {
	case keywords.ComponentDecl:
		return true
	case keywords.FunctionDecl:
		return c != keywords.ComponentDecl
	}
	return false
}

// closesOnNextLine accepts "if x then y\nendif": a specific closer opening the next line.
func (d *detector) closesOnNextLine(c keywords.Concept, opener, closer int) bool {
	t := d.toks[closer]
	return closer == d.lineEnd(opener) && !t.Is(keywords.End) && keywords.Closes(c, t.Concept)
}

func (d *detector) matchBrace(open int) int {
	depth := 0
	for j := open; j < d.n; j++ {
		switch {
		case d.toks[j].IsPunct("{"):
			depth++
		case d.toks[j].IsPunct("}"):
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func (d *detector) indentEnd(opener, bodyStart int) int {
	indent := d.toks[opener].Indent
	for k := bodyStart; k < d.n; k++ {
		if d.toks[k].LineStart() && d.toks[k].Indent <= indent {
			return k
		}
	}
	return d.n
}

func (d *detector) lineEnd(i int) int {
	for j := i + 1; j < d.n; j++ {
		if !d.sameLine(i, j) {
			return j
		}
	}
	return d.n
}

func (d *detector) sameLine(i, j int) bool {
	return d.toks[i].Pos.Line == d.toks[j].Pos.Line
}

func (d *detector) isBranch(k int) bool {
	t := d.toks[k]
	return !d.consumed[k] && (t.Is(keywords.Else) || t.Is(keywords.ElseIf))
}

func inlineCapable(c keywords.Concept) bool {
	return c == keywords.If || c == keywords.While || c == keywords.For
}

func (d *detector) assignDepth() {
	all := make([]*Construct, 0, len(d.cons))
	for _, c := range d.cons {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Opener < all[j].Opener })
	var ends []int
	for _, c := range all {
		for len(ends) > 0 && ends[len(ends)-1] <= c.Opener {
			ends = ends[:len(ends)-1]
		}
		c.Depth = len(ends)
		ends = append(ends, c.End())
	}
}
