package complete

import (
	"sort"

	"pseudo/internal/ast"
	"pseudo/internal/keywords"
	"pseudo/internal/snippets"
	"pseudo/internal/token"
)

type Kind uint8

const (
	KindKeyword Kind = iota
	KindSnippet
	KindVariable
	KindFunction
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindSnippet:
		return "snippet"
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindComponent:
		return "component"
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// tier orders kinds: keyword < snippet < everything declared in the file.
func (k Kind) tier() int {
	switch k {
	case KindKeyword:
		return 0
	case KindSnippet:
		return 1
	}
	return 2
}

// Item is one completion candidate.
type Item struct {
	Label   string           `json:"label"`
	Kind    Kind             `json:"kind"`
	Detail  string           `json:"detail,omitempty"`
	Insert  string           `json:"insert"`
	Snippet bool             `json:"snippet,omitempty"` // Insert uses snippet syntax
	Concept keywords.Concept `json:"-"`
	// Placeholders describe the tab stops of a snippet insert.
	Placeholders []snippets.Placeholder `json:"placeholders,omitempty"`
	Priority     int                    `json:"priority"`
	Fuzzy        bool                   `json:"fuzzy,omitempty"`

	order int
}

type Options struct {
	Registry *keywords.Registry
	Snippets *snippets.Library
	// Limit caps the number of items; 0 means no cap.
	Limit int
	// TreeOffset maps a token offset into the tree when the tree was built
	// from older text; nil means both share one text.
	TreeOffset func(uint32) uint32
}

// Complete returns ranked candidates for the cursor at offset. tokens is
// the full stream including trivia. It returns nil inside comments and
// strings.
func Complete(tree *ast.Tree, tokens []token.Token, offset uint32, opts Options) []Item {
	if opts.Registry == nil {
		opts.Registry = keywords.Default()
	}
	ctx := classify(tokens, offset)
	if ctx.inert {
		return nil
	}

	var items []Item
	if ctx.stmtStart {
		items = append(items, keywordItems(opts.Registry, ctx.prefix, statementKeyword)...)
		items = append(items, snippetItems(opts.Snippets, ctx.prefix)...)
	} else if ctx.prefix != "" {
		items = append(items, keywordItems(opts.Registry, ctx.prefix, expressionKeyword)...)
	}
	treeOff := opts.TreeOffset
	if treeOff == nil {
		treeOff = func(off uint32) uint32 { return off }
	}
	lay := newLayout(tokens, offset, treeOff)
	items = append(items, variableItems(tree, treeOff(offset), ctx, lay)...)

	rank(items)
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items
}

// rank sorts by match quality, then kind tier, then registration order,
// and numbers the result.
func rank(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Fuzzy != b.Fuzzy {
			return !a.Fuzzy
		}
		if a.Kind.tier() != b.Kind.tier() {
			return a.Kind.tier() < b.Kind.tier()
		}
		return a.order < b.order
	})
	for i := range items {
		items[i].Priority = i
	}
}
