package snippets

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"pseudo/internal/keywords"
)

//go:embed default.json
var defaultJSON []byte

// Snippet is one template of the library.
type Snippet struct {
	Name        string
	Prefixes    []string
	Body        string // snippet syntax, placeholders intact
	Description string
	Plain       string // body with placeholders replaced by their defaults
	Placeholder []Placeholder
	Order       int // registration order
}

// Library is an immutable, ordered snippet set.
type Library struct {
	items []Snippet
}

var ErrBadSnippet = errors.New("bad snippet")

var defaultLibrary = mustParse(defaultJSON)

// Default returns the built-in library.
func Default() *Library {
	return defaultLibrary
}

func mustParse(data []byte) *Library {
	lib, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return lib
}

// stringList accepts either "x" or ["x", "y"].
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = []string{one}
	return nil
}

type rawSnippet struct {
	Prefix      stringList `json:"prefix"`
	Body        stringList `json:"body"`
	Description string     `json:"description"`
}

// Parse reads a VSCode style snippet file. Entry order is kept.
func Parse(data []byte) (*Library, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("snippets: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("snippets: top level must be an object: %w", ErrBadSnippet)
	}
	lib := &Library{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("snippets: %w", err)
		}
		name, _ := keyTok.(string)
		var raw rawSnippet
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("snippets: %q: %w", name, err)
		}
		if len(raw.Prefix) == 0 || len(raw.Body) == 0 {
			return nil, fmt.Errorf("snippets: %q needs prefix and body: %w", name, ErrBadSnippet)
		}
		body := strings.Join(raw.Body, "\n")
		plain, ph := ParseBody(body)
		lib.items = append(lib.items, Snippet{
			Name:        name,
			Prefixes:    raw.Prefix,
			Body:        body,
			Description: raw.Description,
			Plain:       plain,
			Placeholder: ph,
			Order:       len(lib.items),
		})
	}
	return lib, nil
}

// Load reads a snippet file from disk.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's config
	if err != nil {
		return nil, fmt.Errorf("snippets: %w", err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Merge returns a library with l's snippets followed by other's.
func (l *Library) Merge(other *Library) *Library {
	out := &Library{items: make([]Snippet, 0, l.Len()+other.Len())}
	for _, lib := range []*Library{l, other} {
		if lib == nil {
			continue
		}
		for _, s := range lib.items {
			s.Order = len(out.items)
			out.items = append(out.items, s)
		}
	}
	return out
}

func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// All returns the snippets in registration order. READONLY.
func (l *Library) All() []Snippet {
	if l == nil {
		return nil
	}
	return l.items
}

// Trigger returns the first prefix of s starting with typed (case-insensitive).
func (s *Snippet) Trigger(typed string) (string, bool) {
	typed = keywords.Fold(typed)
	for _, p := range s.Prefixes {
		if strings.HasPrefix(keywords.Fold(p), typed) {
			return p, true
		}
	}
	return "", false
}
