package ast

import "pseudo/internal/source"

// Tree owns every node of one parse.
type Tree struct {
	Nodes *Arena[Node]
	Root  NodeID
}

func NewTree(capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Tree{Nodes: NewArena[Node](capHint)}
}

// New allocates a node with the given kind and span.
func (t *Tree) New(kind Kind, sp source.Span) NodeID {
	return NodeID(t.Nodes.Allocate(Node{Kind: kind, Span: sp, Closed: true}))
}

// Add allocates a copy of n.
func (t *Tree) Add(n Node) NodeID {
	return NodeID(t.Nodes.Allocate(n))
}

// Get returns the node for id, or nil.
func (t *Tree) Get(id NodeID) *Node {
	if t == nil {
		return nil
	}
	return t.Nodes.Get(uint32(id))
}

// Push appends child to parent's children.
func (t *Tree) Push(parent, child NodeID) {
	if n := t.Get(parent); n != nil {
		n.Children = append(n.Children, child)
	}
}

// SetSpan replaces the span of id.
func (t *Tree) SetSpan(id NodeID, sp source.Span) {
	if n := t.Get(id); n != nil {
		n.Span = sp
	}
}

func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return int(t.Nodes.Len())
}

// Kind returns the kind of id, KindInvalid for NoNodeID.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}
