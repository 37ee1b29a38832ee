package analysis

import (
	"pseudo/internal/lexer"
	"pseudo/internal/source"
)

// edit maps offsets of the current text into the text the tree was built
// from: [start, newEnd) in the current text replaced [start, oldEnd).
type edit struct {
	start, oldEnd, newEnd uint32
}

func diffEdit(old, cur []byte) *edit {
	p := 0
	for p < len(old) && p < len(cur) && old[p] == cur[p] {
		p++
	}
	s := 0
	for s < len(old)-p && s < len(cur)-p && old[len(old)-1-s] == cur[len(cur)-1-s] {
		s++
	}
	return &edit{start: toUint32(p), oldEnd: toUint32(len(old) - s), newEnd: toUint32(len(cur) - s)}
}

// treeOffset maps off to the tree's text. Offsets inside the edited
// region land at its end.
func (e *edit) treeOffset(off uint32) uint32 {
	switch {
	case off <= e.start:
		return off
	case off >= e.newEnd:
		return off - e.newEnd + e.oldEnd
	}
	return e.oldEnd
}

// Relex returns a result for text whose tokens are fresh while the tree and
// scope come from prev. Diagnostics are left empty. Completion uses it when
// the buffer is ahead of the last finished analysis: the cursor, the typed
// prefix and the replace range follow the buffer, only names come from the
// older tree.
func Relex(prev *Result, text string, version int) *Result {
	if prev == nil {
		return nil
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(prev.opts.Name, []byte(text)))
	toks := lexer.Tokenize(file, lexer.Options{Registry: prev.opts.Registry})

	base := prev.treeText()
	return &Result{
		Version:  version,
		File:     file,
		Tokens:   toks,
		Scope:    prev.Scope,
		Tree:     prev.Tree,
		Root:     prev.Root,
		opts:     prev.opts,
		base:     base,
		treeEdit: diffEdit(base, file.Content),
	}
}

// treeText is the text Tree spans refer to.
func (r *Result) treeText() []byte {
	if r.base != nil {
		return r.base
	}
	return r.File.Content
}

// Stale reports whether Tree was built from older text than File.
func (r *Result) Stale() bool {
	return r != nil && r.treeEdit != nil
}
