package scope_test

import (
	"testing"

	"pseudo/internal/keywords"
	"pseudo/internal/lexer"
	"pseudo/internal/scope"
	"pseudo/internal/source"
)

func detect(t *testing.T, input string) *scope.Result {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.pseudo", []byte(input)))
	return scope.Detect(lexer.Tokenize(file, lexer.Options{}))
}

// first returns the construct opened by the first token matching c.
func first(t *testing.T, res *scope.Result, c keywords.Concept) *scope.Construct {
	t.Helper()
	for i, tok := range res.Tokens {
		if tok.Is(c) {
			if con := res.Construct(i); con != nil {
				return con
			}
		}
	}
	t.Fatalf("no %s construct in %d tokens", c, len(res.Tokens))
	return nil
}

func TestDetectFileStyle(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  scope.Style
	}{
		{"braces", "function test() { return true }", scope.Braces},
		{"keyword", "function test() return true endfunction", scope.KeywordDelimited},
		{"indentation", "function test():\n    return true", scope.Indentation},
		{"missing closer", "function test() var x to 1", scope.Mixed},
		{"mixed blocks", "function a() { return 1 }\nfunction b()\n    return 2\nend", scope.Mixed},
		{"siblings by indentation", "function a()\n  return 1\nfunction b()\n  return 2", scope.Indentation},
		{"no constructs", "print 1\nprint 2", scope.Mixed},
		{"empty", "", scope.Mixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := detect(t, tc.input)
			if res.File != tc.want {
				t.Fatalf("file style = %v, want %v", res.File, tc.want)
			}
		})
	}
}

func TestDetectMissingCloser(t *testing.T) {
	res := detect(t, "function test() var x to 1")
	c := first(t, res, keywords.FunctionDecl)
	if !c.Missing || c.Style != scope.Mixed {
		t.Fatalf("style=%v missing=%v, want mixed and missing", c.Style, c.Missing)
	}
	if len(c.Segments) != 1 || c.Segments[0].BodyStart != 4 || c.Segments[0].BodyEnd != len(res.Tokens) {
		t.Fatalf("segments = %+v", c.Segments)
	}
}

func TestDetectElseChains(t *testing.T) {
	cases := []struct {
		name  string
		input string
		style scope.Style
		segs  []scope.Segment
	}{
		{
			name:  "braces",
			input: "if x > 1 {\n  print x\n} else {\n  print 0\n}",
			style: scope.Braces,
			segs:  []scope.Segment{{Marker: 0, BodyStart: 5, BodyEnd: 7, Close: 7}, {Marker: 8, BodyStart: 10, BodyEnd: 12, Close: 12}},
		},
		{
			name:  "keyword",
			input: "if x then\n  print 1\nelse\n  print 2\nendif",
			style: scope.KeywordDelimited,
			segs:  []scope.Segment{{Marker: 0, BodyStart: 3, BodyEnd: 5, Close: -1}, {Marker: 5, BodyStart: 6, BodyEnd: 8, Close: -1}},
		},
		{
			name:  "indentation",
			input: "if x:\n    print 1\nelse:\n    print 2\nprint 3",
			style: scope.Indentation,
			segs:  []scope.Segment{{Marker: 0, BodyStart: 3, BodyEnd: 5, Close: -1}, {Marker: 5, BodyStart: 7, BodyEnd: 9, Close: -1}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := first(t, detect(t, tc.input), keywords.If)
			if c.Style != tc.style {
				t.Fatalf("style = %v, want %v", c.Style, tc.style)
			}
			if len(c.Segments) != len(tc.segs) {
				t.Fatalf("segments = %+v, want %+v", c.Segments, tc.segs)
			}
			for i := range tc.segs {
				if c.Segments[i] != tc.segs[i] {
					t.Fatalf("segment %d = %+v, want %+v", i, c.Segments[i], tc.segs[i])
				}
			}
		})
	}
}

func TestDetectInlineIf(t *testing.T) {
	res := detect(t, "if x > 1 then print x\nprint 2")
	c := first(t, res, keywords.If)
	if !c.Inline || c.Missing {
		t.Fatalf("inline=%v missing=%v", c.Inline, c.Missing)
	}
	if c.End() != 7 {
		t.Fatalf("end = %d, want 7", c.End())
	}
	if len(res.Evidence.Hints()) != 0 {
		t.Fatalf("inline construct produced hints: %+v", res.Evidence.Hints())
	}

	res = detect(t, "if x then print 1 else print 2")
	c = first(t, res, keywords.If)
	if len(c.Segments) != 2 || c.Segments[1].Marker != 5 || c.Segments[1].BodyStart != 6 {
		t.Fatalf("segments = %+v", c.Segments)
	}
}

// Общий end с меньшим отступом закрывает внешнюю конструкцию.
func TestDetectGenericEndIndent(t *testing.T) {
	res := detect(t, "function f()\n    if x then\n        print 1\nend")
	fn := first(t, res, keywords.FunctionDecl)
	iff := first(t, res, keywords.If)
	if fn.Style != scope.KeywordDelimited || fn.Close != 9 {
		t.Fatalf("function style=%v close=%d", fn.Style, fn.Close)
	}
	if iff.Style != scope.Indentation || iff.Close != -1 {
		t.Fatalf("if style=%v close=%d", iff.Style, iff.Close)
	}
	if iff.Depth != 1 || fn.Depth != 0 {
		t.Fatalf("depths fn=%d if=%d", fn.Depth, iff.Depth)
	}
}

func TestDetectRedundantCloser(t *testing.T) {
	res := detect(t, "if x {\n  print 1\n} endif")
	c := first(t, res, keywords.If)
	if c.Style != scope.Braces || c.Redundant != 6 {
		t.Fatalf("style=%v redundant=%d", c.Style, c.Redundant)
	}
	if c.End() != 7 {
		t.Fatalf("end = %d, want 7", c.End())
	}
	var kw int
	for _, h := range res.Evidence.Hints() {
		if h.Style == scope.KeywordDelimited {
			kw++
		}
	}
	if kw != 1 {
		t.Fatalf("keyword hints = %d, want 1", kw)
	}
}

func TestDetectDoLoops(t *testing.T) {
	res := detect(t, "do {\n  x++\n} until x > 3")
	c := first(t, res, keywords.Do)
	if c.Style != scope.Braces || c.Trailer != 5 {
		t.Fatalf("style=%v trailer=%d", c.Style, c.Trailer)
	}

	res = detect(t, "repeat\n  x to x + 1\nuntil x > 3")
	c = first(t, res, keywords.Do)
	if c.Style != scope.KeywordDelimited || c.Close != 6 {
		t.Fatalf("style=%v close=%d", c.Style, c.Close)
	}
}

func TestDetectNestedDepth(t *testing.T) {
	res := detect(t, "function f() {\n  if x {\n    return 1\n  }\n}")
	if len(res.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(res.Blocks))
	}
	iff := first(t, res, keywords.If)
	if iff.Style != scope.Braces || iff.Depth != 1 {
		t.Fatalf("if style=%v depth=%d", iff.Style, iff.Depth)
	}
}

func TestClassifierSummary(t *testing.T) {
	res := detect(t, "function a() { return 1 }\nfunction b() { return 2 }\nwhile x do\n  x to x - 1\nendwhile")
	sum := res.Summary
	if sum.Style != scope.Braces || sum.RunnerUp != scope.KeywordDelimited {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.Score != 6 || sum.TotalScore != 9 || sum.ObservedSignals != 3 {
		t.Fatalf("summary scores = %+v", sum)
	}
	if res.File != scope.Mixed {
		t.Fatalf("file style = %v, want mixed", res.File)
	}
}

func TestDetectUnmatchedBraceFallsBack(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		opener    keywords.Concept
		style     scope.Style
		close     int
		unmatched int
		file      scope.Style
	}{
		{
			name:      "closed by keyword",
			input:     "function f() {\n  return 1\nendfunction",
			opener:    keywords.FunctionDecl,
			style:     scope.KeywordDelimited,
			close:     7,
			unmatched: 4,
			file:      scope.KeywordDelimited,
		},
		{
			name:      "nested in keyword block",
			input:     "function f()\n  if x {\n    print 1\n  endif\nendfunction",
			opener:    keywords.If,
			style:     scope.KeywordDelimited,
			close:     9,
			unmatched: 6,
			file:      scope.KeywordDelimited,
		},
		{
			name:      "indented body",
			input:     "if x {\n  print 1\nprint 2",
			opener:    keywords.If,
			style:     scope.Indentation,
			close:     -1,
			unmatched: 2,
			file:      scope.Indentation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := detect(t, tc.input)
			c := first(t, res, tc.opener)
			if c.Style != tc.style || c.Close != tc.close || c.Unmatched != tc.unmatched || c.Missing {
				t.Fatalf("style=%v close=%d unmatched=%d missing=%v", c.Style, c.Close, c.Unmatched, c.Missing)
			}
			if res.File != tc.file {
				t.Fatalf("file style = %v, want %v", res.File, tc.file)
			}
		})
	}

	fn := first(t, detect(t, "function f()\n  if x {\n    print 1\n  endif\nendfunction"), keywords.FunctionDecl)
	if fn.Style != scope.KeywordDelimited || fn.Close != 10 || fn.Unmatched != -1 {
		t.Fatalf("function style=%v close=%d unmatched=%d", fn.Style, fn.Close, fn.Unmatched)
	}
}

func TestDetectRedundantGenericEnd(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		redundant int
	}{
		{"same line", "function f() { return 1 } end", 8},
		{"after closing line", "if x {\n print 1\n} end", 6},
		{"next line at opener indent", "if x {\n  print 1\n}\nend", 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := detect(t, tc.input)
			c := res.Blocks[0]
			if c.Style != scope.Braces || c.Redundant != tc.redundant || c.End() != tc.redundant+1 {
				t.Fatalf("style=%v redundant=%d end=%d", c.Style, c.Redundant, c.End())
			}
		})
	}

	// end closes the enclosing while, not the braced if
	res := detect(t, "while y do\n  if x { print 1 } end")
	loop := first(t, res, keywords.While)
	iff := first(t, res, keywords.If)
	if loop.Style != scope.KeywordDelimited || loop.Close != 9 || iff.Redundant != -1 {
		t.Fatalf("while style=%v close=%d, if redundant=%d", loop.Style, loop.Close, iff.Redundant)
	}
}
