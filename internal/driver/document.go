package driver

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"pseudo/internal/analysis"
	"pseudo/internal/diag"
	"pseudo/internal/source"
)

// StdinName is the path that reads a document from standard input.
const StdinName = "-"

// Document is one analyzed file together with a FileSet the formatters
// can resolve its diagnostics against.
type Document struct {
	FileSet     *source.FileSet
	FileID      source.FileID
	Result      *analysis.Result
	Diagnostics []diag.Diagnostic
}

// Bag returns the document's diagnostics capped at limit (0 = all).
func (d *Document) Bag(limit int) *diag.Bag {
	bag := diag.NewBag(limit)
	for _, x := range d.Diagnostics {
		bag.Add(x)
	}
	return bag
}

// ReadDocument returns the text of path, or of stdin for "-".
func ReadDocument(path string, stdin io.Reader) (string, error) {
	if path == StdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// AnalyzeFile reads and analyzes a single document.
func AnalyzeFile(path string, stdin io.Reader, opts analysis.Options) (*Document, error) {
	text, err := ReadDocument(path, stdin)
	if err != nil {
		return nil, err
	}
	if path != StdinName {
		opts.Name = path
	}
	return NewDocument(analysis.Analyze(text, 0, opts)), nil
}

// NewDocument wraps a finished analysis.
func NewDocument(res *analysis.Result) *Document {
	fs := source.NewFileSet()
	id := fs.Add(res.File.Path, res.File.Content, res.File.Flags)
	return &Document{
		FileSet:     fs,
		FileID:      id,
		Result:      res,
		Diagnostics: remap(res.Diagnostics, id),
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
