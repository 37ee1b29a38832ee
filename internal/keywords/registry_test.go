package keywords_test

import (
	"errors"
	"strings"
	"testing"

	"pseudo/internal/keywords"
)

func TestResolveCaseInsensitive(t *testing.T) {
	reg := keywords.Default()
	tests := []struct {
		surface string
		want    keywords.Concept
	}{
		{"function", keywords.FunctionDecl},
		{"FUNC", keywords.FunctionDecl},
		{"Def", keywords.FunctionDecl},
		{"end   function", keywords.EndFunction},
		{"EndIf", keywords.EndIf},
		{"is greater than", keywords.Gt},
		{">=", keywords.Ge},
		{"≤", keywords.Le},
		{"yes", keywords.True},
		{"nothing", keywords.Null},
	}
	for _, tt := range tests {
		t.Run(tt.surface, func(t *testing.T) {
			got, ok := reg.Resolve(tt.surface)
			if !ok || got != tt.want {
				t.Fatalf("Resolve(%q) = %s,%v; want %s", tt.surface, got, ok, tt.want)
			}
		})
	}
}

func TestResolveRejectsSubstrings(t *testing.T) {
	reg := keywords.Default()
	for _, s := range []string{"functional", "iff", "print_total", "endless", "f"} {
		if c, ok := reg.Resolve(s); ok {
			t.Fatalf("Resolve(%q) = %s; want no match", s, c)
		}
	}
}

func words(s string) func(int) (string, bool) {
	ws := strings.Fields(strings.ToLower(s))
	return func(i int) (string, bool) {
		if i >= len(ws) {
			return "", false
		}
		return ws[i], true
	}
}

func TestMatchWordsLongest(t *testing.T) {
	reg := keywords.Default()
	tests := []struct {
		input string
		want  keywords.Concept
		n     int
	}{
		{"for x in xs", keywords.For, 1},
		{"for each x in xs", keywords.For, 2},
		{"to the power of 2", keywords.Pow, 4},
		{"to the end", keywords.Assign, 1},
		{"is not equal to y", keywords.Ne, 4},
		{"is not y", keywords.Ne, 2},
		{"is y", keywords.Eq, 1},
		{"end if", keywords.EndIf, 2},
		{"end", keywords.End, 1},
		{"repeat while x", keywords.While, 2},
		{"repeat", keywords.Do, 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, n, ok := reg.MatchWords(words(tt.input))
			if !ok || c != tt.want || n != tt.n {
				t.Fatalf("MatchWords(%q) = %s,%d,%v; want %s,%d", tt.input, c, n, ok, tt.want, tt.n)
			}
		})
	}
	if _, _, ok := reg.MatchWords(words("counter is 3")); ok {
		t.Fatalf("identifier must not match")
	}
}

func TestMatchSymbolLongest(t *testing.T) {
	reg := keywords.Default()
	tests := []struct {
		src  string
		want keywords.Concept
		n    int
	}{
		{"<= 3", keywords.Le, 2},
		{"<-x", keywords.Assign, 2},
		{"<>", keywords.Ne, 2},
		{"< 3", keywords.Lt, 1},
		{"**2", keywords.Pow, 2},
		{"*2", keywords.Mul, 1},
		{"≥ 1", keywords.Ge, len("≥")},
		{"@", keywords.None, 0},
	}
	for _, tt := range tests {
		c, n := reg.MatchSymbol([]byte(tt.src))
		if c != tt.want || n != tt.n {
			t.Errorf("MatchSymbol(%q) = %s,%d; want %s,%d", tt.src, c, n, tt.want, tt.n)
		}
	}
}

func TestDuplicateSurfaceFailsRegistration(t *testing.T) {
	_, err := keywords.New([]keywords.Group{
		{Concept: keywords.FunctionDecl, Class: keywords.ClassKeyword, Surfaces: []string{"func"}},
		{Concept: keywords.VarDecl, Class: keywords.ClassKeyword, Surfaces: []string{"FUNC"}},
	})
	if !errors.Is(err, keywords.ErrDuplicateSurface) {
		t.Fatalf("expected ErrDuplicateSurface, got %v", err)
	}
	var dup *keywords.DuplicateSurfaceError
	if !errors.As(err, &dup) || dup.First != keywords.FunctionDecl || dup.Second != keywords.VarDecl {
		t.Fatalf("unexpected error detail: %#v", err)
	}
}

func TestExtendDoesNotMutate(t *testing.T) {
	base := keywords.Default()
	ext, err := base.Extend(map[keywords.Concept][]string{keywords.FunctionDecl: {"routine"}})
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if c, ok := ext.Resolve("Routine"); !ok || c != keywords.FunctionDecl {
		t.Fatalf("extended registry misses synonym")
	}
	if _, ok := base.Resolve("routine"); ok {
		t.Fatalf("base registry was mutated")
	}
	if _, err := base.Extend(map[keywords.Concept][]string{keywords.If: {"func"}}); !errors.Is(err, keywords.ErrDuplicateSurface) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestConceptNamesRoundTrip(t *testing.T) {
	for _, g := range keywords.Default().Groups() {
		c, ok := keywords.ParseConcept(g.Concept.String())
		if !ok || c != g.Concept {
			t.Fatalf("ParseConcept(%q) = %v,%v", g.Concept.String(), c, ok)
		}
	}
}

func TestClosers(t *testing.T) {
	if !keywords.Closes(keywords.FunctionDecl, keywords.EndFunction) {
		t.Fatal("endfunction must close function")
	}
	if !keywords.Closes(keywords.If, keywords.End) {
		t.Fatal("end must close if")
	}
	if keywords.Closes(keywords.If, keywords.EndFor) {
		t.Fatal("endfor must not close if")
	}
	if !keywords.Closes(keywords.Do, keywords.Until) {
		t.Fatal("until must close repeat")
	}
}
