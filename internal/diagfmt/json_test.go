package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"pseudo/internal/analysis"
	"pseudo/internal/diag"
	"pseudo/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.pseudo", []byte("function main()\n  x = \"unterminated\nend\n"))
	bag := oneDiagnostic(fs, id, diag.SevError, diag.LexUnterminatedString, 22, 35, "Unterminated string literal")

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || output.Errors != 1 || output.Warnings != 0 {
		t.Fatalf("counts = %+v", output)
	}
	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" || d.Title != "Unterminated string literal" {
		t.Fatalf("diagnostic = %+v", d)
	}
	want := LocationJSON{File: "test.pseudo", StartByte: 22, EndByte: 35, StartLine: 2, StartCol: 7, EndLine: 2, EndCol: 20}
	if d.Location != want {
		t.Fatalf("location = %+v, want %+v", d.Location, want)
	}
}

func TestJSONMaxKeepsCounts(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.pseudo", []byte("@ @ @\n"))
	bag := diag.NewBag(0)
	for i := range uint32(3) {
		bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.LexUnknownChar, Span: source.Span{File: id, Start: 2 * i, End: 2*i + 1}})
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Warnings != 3 {
		t.Fatalf("output = %+v", out)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatal("positions included without IncludePositions")
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.pseudo", []byte("x\n@\n"))
	b := fs.AddVirtual("b.pseudo", []byte("@"))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.LexUnknownChar, Span: source.Span{File: a, Start: 2, End: 3}, Message: "unknown"})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.LexUnterminatedString, Span: source.Span{File: b, Start: 0, End: 1}, Message: "open"})
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, PathModeAuto, false); err != nil {
		t.Fatalf("short: %v", err)
	}
	want := "warning LEX1001 a.pseudo:2:1 unknown\nerror LEX1002 b.pseudo:1:1 open\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTokensDump(t *testing.T) {
	res := analysis.Analyze("if x then\n", 1, analysis.Options{})
	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, res.Tokens, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(pretty.String()), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], "Keyword") || !strings.Contains(lines[0], `"if" at 1:1`) {
		t.Fatalf("pretty tokens:\n%s", pretty.String())
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, res.Tokens, true); err != nil {
		t.Fatal(err)
	}
	var toks []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &toks); err != nil {
		t.Fatalf("json tokens: %v", err)
	}
	if len(toks) != len(res.Tokens) || toks[1].Kind != "Space" {
		t.Fatalf("json tokens = %+v", toks)
	}
	if toks[0].Concept == "" || len(toks[0].Flags) == 0 || toks[0].Flags[0] != "line-start" {
		t.Fatalf("first token = %+v", toks[0])
	}
}

func TestASTDump(t *testing.T) {
	res := analysis.Analyze("if x then\n    print x\nend if\n", 1, analysis.Options{})
	var pretty bytes.Buffer
	if err := FormatASTPretty(&pretty, res.Tree, res.Root, res.File); err != nil {
		t.Fatal(err)
	}
	out := pretty.String()
	if !strings.HasPrefix(out, "Program (span: ") || !strings.Contains(out, "└─ IfStmt") {
		t.Fatalf("pretty tree:\n%s", out)
	}

	var js bytes.Buffer
	if err := FormatASTJSON(&js, res.Tree, res.Root); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(js.Bytes(), &root); err != nil {
		t.Fatalf("json tree: %v", err)
	}
	if root.Kind != "Program" || len(root.Children) != 1 || root.Children[0].Kind != "IfStmt" || root.Children[0].Style != "keyword" {
		t.Fatalf("json tree = %+v", root)
	}
	if err := FormatASTJSON(&js, nil, res.Root); err == nil {
		t.Fatal("nil tree accepted")
	}
}
