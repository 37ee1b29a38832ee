// Package ast holds the parse tree in an index-based arena.
//
// Nodes never point at their parents; ParentIndex is built on demand, so a
// tree is a plain value that can be cached and shared read-only.
package ast
