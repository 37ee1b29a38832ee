package analysis

import (
	"strconv"

	"pseudo/internal/ast"
	"pseudo/internal/complete"
	"pseudo/internal/diag"
	"pseudo/internal/keywords"
	"pseudo/internal/lexer"
	"pseudo/internal/parser"
	"pseudo/internal/scope"
	"pseudo/internal/snippets"
	"pseudo/internal/source"
	"pseudo/internal/token"
	"pseudo/internal/trace"
)

// DefaultName is the file name given to documents analyzed without one.
const DefaultName = "untitled.pseudo"

// Options are fixed for the life of a process; Analyze never mutates them.
type Options struct {
	Registry *keywords.Registry // nil means keywords.Default()
	Snippets *snippets.Library  // nil means snippets.Default()
	Name     string
	// MaxFindings caps parser findings; 0 means unlimited.
	MaxFindings uint
	// CompletionLimit caps completion items; 0 means unlimited.
	CompletionLimit int
	Tracer          trace.Tracer
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = keywords.Default()
	}
	if o.Snippets == nil {
		o.Snippets = snippets.Default()
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	return o
}

// Result is the immutable outcome of analyzing one document version.
type Result struct {
	Version     int
	File        *source.File
	Tokens      []token.Token // full stream, trivia included
	Scope       *scope.Result
	Tree        *ast.Tree
	Root        ast.NodeID
	Findings    []diag.Finding
	Diagnostics []diag.Diagnostic
	// Truncated is set when MaxFindings dropped parser findings.
	Truncated bool

	opts Options
	// set by Relex: the text Tree was built from and the edit since
	base     []byte
	treeEdit *edit
}

// Analyze runs the whole pipeline over text. It never fails: malformed
// input yields findings, never an error.
func Analyze(text string, version int, opts Options) *Result {
	opts = opts.withDefaults()
	root := trace.Begin(opts.Tracer, trace.ScopeDocument, "analyze", 0).
		WithExtra("name", opts.Name).
		WithExtra("version", strconv.Itoa(version))

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(opts.Name, []byte(text)))
	col := &diag.Collector{}
	rep := diag.NewDedupReporter(col)

	span := trace.Begin(opts.Tracer, trace.ScopePhase, "lex", root.ID())
	toks := lexer.Tokenize(file, lexer.Options{Reporter: rep, Registry: opts.Registry})
	span.WithExtra("tokens", strconv.Itoa(len(toks))).End("")

	span = trace.Begin(opts.Tracer, trace.ScopePhase, "scope", root.ID())
	sc := scope.Detect(toks)
	span.WithExtra("style", sc.File.String()).End("")

	span = trace.Begin(opts.Tracer, trace.ScopePhase, "parse", root.ID())
	parsed := parser.Parse(file, sc, parser.Options{Reporter: rep, MaxFindings: opts.MaxFindings})
	span.WithExtra("nodes", strconv.Itoa(parsed.Tree.Len())).End("")

	span = trace.Begin(opts.Tracer, trace.ScopePhase, "classify", root.ID())
	diags := diag.Classify(col.Findings)
	diag.Locate(file, diags)
	span.WithExtra("diagnostics", strconv.Itoa(len(diags))).
		WithExtra("duplicates", strconv.Itoa(rep.Dropped())).End("")

	root.End("")
	return &Result{
		Version:     version,
		File:        file,
		Tokens:      toks,
		Scope:       sc,
		Tree:        parsed.Tree,
		Root:        parsed.Root,
		Findings:    col.Findings,
		Diagnostics: diags,
		Truncated:   parsed.Truncated,
		opts:        opts,
	}
}

// Complete returns ranked completions at a 0-based line and a 0-based
// column counted in UTF-16 code units, the way editors address text.
func (r *Result) Complete(line, col int) []complete.Item {
	if r == nil {
		return nil
	}
	return r.CompleteAt(r.Offset(line, col))
}

// CompleteAt returns ranked completions at a byte offset.
func (r *Result) CompleteAt(offset uint32) []complete.Item {
	if r == nil {
		return nil
	}
	opts := complete.Options{
		Registry: r.opts.Registry,
		Snippets: r.opts.Snippets,
		Limit:    r.opts.CompletionLimit,
	}
	if r.treeEdit != nil {
		opts.TreeOffset = r.treeEdit.treeOffset
	}
	return complete.Complete(r.Tree, r.Tokens, min(offset, r.File.Size()), opts)
}

// CompleteText analyzes text and completes at line/col in one call.
func CompleteText(text string, version, line, col int, opts Options) []complete.Item {
	return Analyze(text, version, opts).Complete(line, col)
}

// Errors counts Error-severity diagnostics.
func (r *Result) Errors() int {
	return diag.Count(r.Diagnostics, diag.SevError)
}

// Warnings counts Warning-severity diagnostics.
func (r *Result) Warnings() int {
	return diag.Count(r.Diagnostics, diag.SevWarning)
}
