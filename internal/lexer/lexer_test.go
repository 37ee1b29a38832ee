package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"pseudo/internal/diag"
	"pseudo/internal/keywords"
	"pseudo/internal/lexer"
	"pseudo/internal/source"
	"pseudo/internal/token"
)

func tokenize(t *testing.T, input string) ([]token.Token, *diag.Collector) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.pseudo", []byte(input)))
	col := &diag.Collector{}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: col})
	checkCoverage(t, input, toks)
	return toks, col
}

// checkCoverage проверяет, что токены покрывают весь вход без пропусков и пересечений.
func checkCoverage(t *testing.T, input string, toks []token.Token) {
	t.Helper()
	var off uint32
	for i, tok := range toks {
		if tok.Span.Start != off {
			t.Fatalf("token %d %v starts at %d, want %d", i, tok.Kind, tok.Span.Start, off)
		}
		if tok.Span.Empty() {
			t.Fatalf("token %d %v is empty", i, tok.Kind)
		}
		if tok.Text != input[tok.Span.Start:tok.Span.End] {
			t.Fatalf("token %d text %q does not match span", i, tok.Text)
		}
		off = tok.Span.End
	}
	if int(off) != len(input) {
		t.Fatalf("tokens end at %d, input has %d bytes", off, len(input))
	}
}

func significant(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if !tok.IsTrivia() {
			out = append(out, tok)
		}
	}
	return out
}

func describe(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, tok := range toks {
		if tok.Concept != keywords.None {
			parts[i] = fmt.Sprintf("%v:%s(%q)", tok.Kind, tok.Concept, tok.Text)
		} else {
			parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
		}
	}
	return strings.Join(parts, " ")
}

func TestWordsAndPhrases(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"FUNCTION foo", `Keyword:function_decl("FUNCTION") Ident("foo")`},
		{"functional", `Ident("functional")`},
		{"end  if", `Keyword:end_if("end  if")`},
		{"end\nif", `Keyword:end("end") Keyword:if("if")`},
		{"for each x in xs", `Keyword:for("for each") Ident("x") Keyword:in("in") Ident("xs")`},
		{"x is greater than 3", `Ident("x") NatOp:gt("is greater than") Literal("3")`},
		{"x to the power of 2", `Ident("x") NatOp:pow("to the power of") Literal("2")`},
		{"set x to 1", `Keyword:var_decl("set") Ident("x") NatOp:assign("to") Literal("1")`},
		{"ok is none", `Ident("ok") NatOp:eq("is") Literal:null("none")`},
		{"yes", `Literal:true("yes")`},
		{"größe", `Ident("größe")`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, col := tokenize(t, tt.input)
			if got := describe(significant(toks)); got != tt.want {
				t.Fatalf("tokens:\n got %s\nwant %s", got, tt.want)
			}
			if len(col.Findings) != 0 {
				t.Fatalf("unexpected findings: %+v", col.Findings)
			}
		})
	}
}

func TestSymbolsAndPunct(t *testing.T) {
	toks, _ := tokenize(t, "x<-a<=b!=c≥d (e) {f}, g++")
	got := describe(significant(toks))
	want := `Ident("x") SymOp:assign("<-") Ident("a") SymOp:le("<=") Ident("b") SymOp:ne("!=") Ident("c") SymOp:ge("≥") Ident("d") ` +
		`Punct("(") Ident("e") Punct(")") Punct("{") Ident("f") Punct("}") Punct(",") Ident("g") SymOp:inc("++")`
	if got != want {
		t.Fatalf("tokens:\n got %s\nwant %s", got, want)
	}
}

func TestComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"slash line", "x // note\ny", []string{"// note"}},
		{"hash line", "# note", []string{"# note"}},
		{"dash line", "x -- note", []string{"-- note"}},
		{"dash operator", "x--", nil},
		{"c block", "a /* b\nc */ d", []string{"/* b\nc */"}},
		{"html block", "<!-- b --> d", []string{"<!-- b -->"}},
		{"pascal block", "(* b *) d", []string{"(* b *)"}},
		{"haskell block", "{- b -} d", []string{"{- b -}"}},
		{"lua block", "--[[ b ]] d", []string{"--[[ b ]]"}},
		{"mixed", "/* a */ # b\n(* c *)", []string{"/* a */", "# b", "(* c *)"}},
		{"brace minus is code", "{-1}", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, col := tokenize(t, tt.input)
			var got []string
			for _, tok := range toks {
				if tok.Kind == token.Comment {
					got = append(got, tok.Text)
				}
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("comments = %q, want %q", got, tt.want)
			}
			if len(col.Findings) != 0 {
				t.Fatalf("unexpected findings: %+v", col.Findings)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	toks, col := tokenize(t, `print "a \"b\"" 'c' `+"`d\ne`"+` """f
g"""`)
	var got []string
	for _, tok := range significant(toks) {
		if tok.Lit == token.LitString {
			got = append(got, tok.Text)
		}
	}
	want := []string{`"a \"b\""`, `'c'`, "`d\ne`", "\"\"\"f\ng\"\"\""}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("strings = %q, want %q", got, want)
	}
	if len(col.Findings) != 0 {
		t.Fatalf("unexpected findings: %+v", col.Findings)
	}
}

func TestApostropheIsNotAString(t *testing.T) {
	toks, col := tokenize(t, "print user's name")
	if len(col.Findings) != 0 {
		t.Fatalf("apostrophe produced findings: %+v", col.Findings)
	}
	for _, tok := range toks {
		if tok.Lit == token.LitString {
			t.Fatalf("apostrophe lexed as string: %q", tok.Text)
		}
	}
	sig := significant(toks)
	if len(sig) != 3 || sig[1].Kind != token.Ident || sig[1].Text != "user's" {
		t.Fatalf("tokens = %s", describe(sig))
	}
}

func TestApostropheInsideWord(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"say don't stop", []string{"say", "don't", "stop"}},
		{"print l'été", []string{"print", "l'été"}},
		{"x = name'", []string{"x", "=", "name", "'"}},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			toks, _ := tokenize(t, tc.input)
			var got []string
			for _, tok := range significant(toks) {
				got = append(got, tok.Text)
			}
			if strings.Join(got, " ") != strings.Join(tc.want, " ") {
				t.Fatalf("tokens = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	input := "log \"unterminated\nprint x"
	toks, col := tokenize(t, input)
	if len(col.Findings) != 1 || col.Findings[0].Code != diag.LexUnterminatedString {
		t.Fatalf("findings = %+v", col.Findings)
	}
	var bad []token.Token
	for _, tok := range toks {
		if tok.IsError() {
			bad = append(bad, tok)
		}
	}
	if len(bad) != 1 || bad[0].Text != `"unterminated` {
		t.Fatalf("error tokens = %v", describe(bad))
	}
	sig := significant(toks)
	last := sig[len(sig)-1]
	if last.Text != "x" || last.Pos.Line != 2 {
		t.Fatalf("following line not lexed normally: %s", describe(sig))
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	toks, col := tokenize(t, "x /* never\nclosed")
	if len(col.Findings) != 1 || col.Findings[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("findings = %+v", col.Findings)
	}
	last := toks[len(toks)-1]
	if last.Kind != token.Comment || !last.IsError() {
		t.Fatalf("last token = %v", describe([]token.Token{last}))
	}
}

func TestNumbers(t *testing.T) {
	toks, col := tokenize(t, "1_000 3.14 .5 2e10 1E-3 0xFF 1.x 3e")
	var got []string
	for _, tok := range significant(toks) {
		if tok.Lit == token.LitNumber {
			got = append(got, tok.Text)
		}
	}
	want := []string{"1_000", "3.14", ".5", "2e10", "1E-3", "0xFF", "1", "3"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("numbers = %q, want %q", got, want)
	}
	if len(col.Findings) != 0 {
		t.Fatalf("unexpected findings: %+v", col.Findings)
	}
}

func TestLineStartAndIndent(t *testing.T) {
	toks, _ := tokenize(t, "if x:\n    y = 1\n\tz")
	type pos struct {
		text   string
		start  bool
		indent int
		line   uint32
	}
	var got []pos
	for _, tok := range significant(toks) {
		got = append(got, pos{tok.Text, tok.LineStart(), tok.Indent, tok.Pos.Line})
	}
	want := []pos{
		{"if", true, 0, 1}, {"x", false, 0, 1}, {":", false, 0, 1},
		{"y", true, 4, 2}, {"=", false, 4, 2}, {"1", false, 4, 2},
		{"z", true, 4, 3},
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("positions:\n got %v\nwant %v", got, want)
	}
}

func TestGarbageIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"\x00\x01\x02",
		"\xff\xfe garbage \x80",
		"\"",
		"'",
		"/*",
		"--[[",
		"@@@ $$$ ~~~",
		"   \n\n\t",
	}
	for _, in := range inputs {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			tokenize(t, in)
		})
	}
}

func TestControlBytesWarn(t *testing.T) {
	_, col := tokenize(t, "a\x01\x02b")
	if len(col.Findings) != 1 || col.Findings[0].Code != diag.LexUnknownChar {
		t.Fatalf("findings = %+v", col.Findings)
	}
	if col.Findings[0].Proposed != diag.SevWarning {
		t.Fatalf("unknown char must propose warning")
	}
}
