package keywords

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// ErrDuplicateSurface is matched by errors.Is for every *DuplicateSurfaceError.
var ErrDuplicateSurface = errors.New("duplicate keyword surface")

// DuplicateSurfaceError reports a surface string registered for two concepts.
type DuplicateSurfaceError struct {
	Surface string
	First   Concept
	Second  Concept
}

func (e *DuplicateSurfaceError) Error() string {
	return fmt.Sprintf("keyword surface %q registered for both %s and %s", e.Surface, e.First, e.Second)
}

func (e *DuplicateSurfaceError) Unwrap() error { return ErrDuplicateSurface }

// Group is one concept with its ordered synonym set.
type Group struct {
	Concept  Concept
	Class    Class
	Surfaces []string
}

// Registry maps surface spellings to concepts. A Registry is immutable after
// construction and may be shared between goroutines.
type Registry struct {
	groups   []Group
	index    map[Concept]int
	surfaces map[string]Concept // folded surface -> concept
	words    *trieNode
	symbols  map[string]Concept
	maxSym   int
}

// New builds a registry from groups. It fails when a case-folded surface
// appears twice, or when a group is malformed.
func New(groups []Group) (*Registry, error) {
	r := &Registry{
		groups:   make([]Group, 0, len(groups)),
		index:    make(map[Concept]int, len(groups)),
		surfaces: make(map[string]Concept),
		words:    newTrieNode(),
		symbols:  make(map[string]Concept),
	}
	for _, g := range groups {
		if err := r.add(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for package-level tables.
func MustNew(groups []Group) *Registry {
	r, err := New(groups)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(g Group) error {
	if g.Concept == None || g.Concept >= conceptCount {
		return fmt.Errorf("keyword group: invalid concept %d", g.Concept)
	}
	pos, seen := r.index[g.Concept]
	if !seen {
		pos = len(r.groups)
		r.index[g.Concept] = pos
		r.groups = append(r.groups, Group{Concept: g.Concept, Class: g.Class})
	} else if r.groups[pos].Class != g.Class {
		return fmt.Errorf("keyword group %s: class %s conflicts with %s", g.Concept, g.Class, r.groups[pos].Class)
	}
	for _, raw := range g.Surfaces {
		key := Fold(raw)
		if key == "" {
			return fmt.Errorf("keyword group %s: empty surface", g.Concept)
		}
		if prev, dup := r.surfaces[key]; dup {
			return &DuplicateSurfaceError{Surface: raw, First: prev, Second: g.Concept}
		}
		r.surfaces[key] = g.Concept
		r.groups[pos].Surfaces = append(r.groups[pos].Surfaces, raw)
		if isWordSurface(key) {
			r.words.insert(strings.Fields(key), g.Concept)
			continue
		}
		r.symbols[key] = g.Concept
		if len(key) > r.maxSym {
			r.maxSym = len(key)
		}
	}
	return nil
}

// Extend returns a new registry with extra synonyms appended to existing
// concepts. The receiver is left untouched.
func (r *Registry) Extend(extra map[Concept][]string) (*Registry, error) {
	groups := r.Groups()
	for i := range groups {
		if more := extra[groups[i].Concept]; len(more) > 0 {
			groups[i].Surfaces = append(groups[i].Surfaces, more...)
		}
	}
	for c := range extra {
		if _, ok := r.index[c]; !ok {
			return nil, fmt.Errorf("keyword group %s: unknown concept", c)
		}
	}
	return New(groups)
}

// Resolve looks a surface up case-insensitively. Runs of whitespace inside
// multi-word surfaces compare equal to a single space.
func (r *Registry) Resolve(surface string) (Concept, bool) {
	c, ok := r.surfaces[Fold(surface)]
	return c, ok
}

// MatchWords finds the longest multi-word surface starting at word 0.
// next(i) yields the i-th upcoming word (already folded) or false when
// the phrase cannot continue.
func (r *Registry) MatchWords(next func(i int) (string, bool)) (Concept, int, bool) {
	node := r.words
	best, bestLen := None, 0
	for i := 0; ; i++ {
		w, ok := next(i)
		if !ok {
			break
		}
		child := node.children[w]
		if child == nil {
			break
		}
		node = child
		if node.concept != None {
			best, bestLen = node.concept, i+1
		}
	}
	return best, bestLen, bestLen > 0
}

// MatchSymbol returns the longest symbolic operator at the start of src
// and its length in bytes, or (None, 0).
func (r *Registry) MatchSymbol(src []byte) (Concept, int) {
	n := min(r.maxSym, len(src))
	for ; n > 0; n-- {
		if c, ok := r.symbols[string(src[:n])]; ok {
			return c, n
		}
	}
	return None, 0
}

// Groups returns a copy of the groups in registration order.
func (r *Registry) Groups() []Group {
	out := make([]Group, len(r.groups))
	for i, g := range r.groups {
		out[i] = Group{Concept: g.Concept, Class: g.Class, Surfaces: append([]string(nil), g.Surfaces...)}
	}
	return out
}

// Surfaces returns the spellings registered for c in order.
func (r *Registry) Surfaces(c Concept) []string {
	pos, ok := r.index[c]
	if !ok {
		return nil
	}
	return append([]string(nil), r.groups[pos].Surfaces...)
}

// ClassOf returns the class of c; unregistered concepts report ClassKeyword.
func (r *Registry) ClassOf(c Concept) Class {
	if pos, ok := r.index[c]; ok {
		return r.groups[pos].Class
	}
	return ClassKeyword
}

// Order returns the registration position of c, used as the final tie-break in rankings.
func (r *Registry) Order(c Concept) int {
	if pos, ok := r.index[c]; ok {
		return pos
	}
	return len(r.groups)
}

// Fold normalizes a surface for comparison: case folding plus single-space word separation.
func Fold(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if isASCII(s) {
		return strings.ToLower(s)
	}
	return cases.Fold().String(s)
}

func isWordSurface(key string) bool {
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsLetter(r) || r == '_'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
