package scope

import (
	"pseudo/internal/keywords"
	"pseudo/internal/source"
	"pseudo/internal/token"
)

func (d *detector) addHint(c *Construct) {
	span := d.toks[c.Opener].Span
	switch {
	case c.Inline:
		return
	case c.Style == Braces:
		d.ev.Add(Hint{Style: Braces, Score: 3, Reason: "block delimited by '{' and '}'", Span: span})
		if c.Redundant >= 0 {
			d.ev.Add(Hint{Style: KeywordDelimited, Score: 1, Reason: "closing keyword repeats a brace close", Span: d.toks[c.Redundant].Span})
		}
	case c.Style == KeywordDelimited:
		d.ev.Add(Hint{Style: KeywordDelimited, Score: 3, Reason: "block closed by " + d.toks[c.Close].Text, Span: span})
	case c.Style == Indentation:
		d.ev.Add(Hint{Style: Indentation, Score: 2, Reason: "body indented under header", Span: span})
	default:
		d.ev.Add(Hint{Style: Mixed, Score: 1, Reason: "block without a recognized closer", Span: span})
	}
}

// fileStyle is the common style of the top-level constructs. Files without
// block constructs are judged on the whole stream with the same rule order.
func (d *detector) fileStyle(blocks []*Construct) Style {
	style, voted := Mixed, false
	for _, c := range blocks {
		if c.Inline {
			continue
		}
		if !voted {
			style, voted = c.Style, true
			continue
		}
		if c.Style != style {
			return Mixed
		}
	}
	if voted {
		return style
	}
	return d.streamStyle()
}

func (d *detector) streamStyle() Style {
	for i := range d.toks {
		if d.toks[i].IsPunct("{") && d.matchBrace(i) >= 0 {
			return Braces
		}
	}
	for _, t := range d.toks {
		if t.Kind == token.Keyword && keywords.IsCloser(t.Concept) {
			return KeywordDelimited
		}
	}
	prev := -1
	for _, t := range d.toks {
		if !t.LineStart() {
			continue
		}
		if prev >= 0 && t.Indent > prev {
			return Indentation
		}
		prev = t.Indent
	}
	return Mixed
}

// Span returns the source span covered by the construct.
func (r *Result) Span(c *Construct) source.Span {
	start := r.Tokens[c.Opener].Span
	end := c.End() - 1
	if end < c.Opener || end >= len(r.Tokens) {
		return start
	}
	return start.Cover(r.Tokens[end].Span)
}
