package lsp

import "testing"

func TestApplyChanges(t *testing.T) {
	rng := func(l1, c1, l2, c2 int) *lspRange {
		return &lspRange{Start: position{Line: l1, Character: c1}, End: position{Line: l2, Character: c2}}
	}
	cases := []struct {
		name    string
		text    string
		changes []textDocumentContentChangeEvent
		want    string
	}{
		{"full", "old", []textDocumentContentChangeEvent{{Text: "new"}}, "new"},
		{"insert", "one\ntwo\n", []textDocumentContentChangeEvent{{Range: rng(0, 0, 0, 0), Text: "// "}}, "// one\ntwo\n"},
		{"replace across lines", "one\ntwo\n", []textDocumentContentChangeEvent{{Range: rng(0, 1, 1, 1), Text: "X"}}, "oXwo\n"},
		{"in order", "ab", []textDocumentContentChangeEvent{
			{Range: rng(0, 2, 0, 2), Text: "c"},
			{Range: rng(0, 0, 0, 1), Text: ""},
		}, "bc"},
		{"surrogate pair", "x𝄞y", []textDocumentContentChangeEvent{{Range: rng(0, 3, 0, 4), Text: "z"}}, "x𝄞z"},
		{"past end", "ab", []textDocumentContentChangeEvent{{Range: rng(5, 0, 6, 0), Text: "!"}}, "ab!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := applyChanges(tc.text, tc.changes); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOffsetForPositionClampsToLine(t *testing.T) {
	text := "ab\ncd"
	if got := offsetForPosition(text, position{Line: 0, Character: 10}); got != 2 {
		t.Fatalf("offset = %d, want 2", got)
	}
	if got := offsetForPosition(text, position{Line: 1, Character: 1}); got != 4 {
		t.Fatalf("offset = %d, want 4", got)
	}
}

func TestCanonicalURI(t *testing.T) {
	if got := canonicalURI("untitled:Untitled-1"); got != "untitled:Untitled-1" {
		t.Fatalf("untitled uri = %q", got)
	}
	uri := pathToURI("/tmp/a b.pseudo")
	if got := canonicalURI(uri); got != uri {
		t.Fatalf("canonical = %q, want %q", got, uri)
	}
	if got := uriToPath(uri); got != "/tmp/a b.pseudo" {
		t.Fatalf("path = %q", got)
	}
}
