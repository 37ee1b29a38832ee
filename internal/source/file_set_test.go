package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.pseudo", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("test.pseudo", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("expected second FileID to be 1, got %d", id2)
	}
	latest, ok := fs.GetLatest("test.pseudo")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("old version content changed: %q", got)
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("buf", []byte("\xEF\xBB\xBFa\r\nb\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileVirtual == 0 || f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	want := []uint32{1, 3}
	if len(f.LineIdx) != len(want) || f.LineIdx[0] != want[0] || f.LineIdx[1] != want[1] {
		t.Fatalf("LineIdx = %v, want %v", f.LineIdx, want)
	}
}

func TestResolvePositions(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r", []byte("ab\ncd\n\nef"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline belongs to its own line
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}},
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
		if back := f.Offset(tt.want); back != tt.off {
			t.Errorf("Offset(%+v) = %d, want %d", tt.want, back, tt.off)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("l", []byte("first\nsecond")))
	if got := f.GetLine(1); got != "first" {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.GetLine(2); got != "second" {
		t.Errorf("line 2 = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("line 3 = %q", got)
	}
}

func TestSpanCoverAndContains(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if other := a.Cover(Span{File: 2, Start: 0, End: 100}); other != a {
		t.Fatalf("cover across files must be a no-op, got %v", other)
	}
	if !a.Contains(8) || a.Contains(9) || a.Contains(3) {
		t.Fatalf("Contains misbehaves for %v", a)
	}
}

func TestLoadCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.pseudo")
	if err := os.WriteFile(path, []byte("x\r\ny"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := string(fs.Get(id).Content); got != "x\ny" {
		t.Fatalf("content = %q", got)
	}
}

func TestRelativePathInsideBase(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "nested", "file.pseudo")
	got, err := RelativePath(target, tmp)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if want := "nested/file.pseudo"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
