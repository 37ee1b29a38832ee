package ast

import (
	"pseudo/internal/keywords"
	"pseudo/internal/scope"
	"pseudo/internal/source"
	"pseudo/internal/token"
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindProgram
	KindFunctionDecl
	KindVarDecl
	KindIfStmt
	KindForStmt
	KindWhileStmt
	KindCallExpr
	KindBinaryExpr
	KindLiteral
	KindBlock
	KindComponentDecl
	KindUnknown
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindExprStmt
	KindUnaryExpr
	KindIdent
	KindParam
)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindProgram:       "Program",
	KindFunctionDecl:  "FunctionDecl",
	KindVarDecl:       "VarDecl",
	KindIfStmt:        "IfStmt",
	KindForStmt:       "ForStmt",
	KindWhileStmt:     "WhileStmt",
	KindCallExpr:      "CallExpr",
	KindBinaryExpr:    "BinaryExpr",
	KindLiteral:       "Literal",
	KindBlock:         "Block",
	KindComponentDecl: "ComponentDecl",
	KindUnknown:       "Unknown",
	KindReturnStmt:    "ReturnStmt",
	KindBreakStmt:     "BreakStmt",
	KindContinueStmt:  "ContinueStmt",
	KindExprStmt:      "ExprStmt",
	KindUnaryExpr:     "UnaryExpr",
	KindIdent:         "Ident",
	KindParam:         "Param",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// MarshalText renders the kind name for JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsScope reports whether declarations inside a node of this kind are
// invisible outside of it.
func (k Kind) IsScope() bool {
	switch k {
	case KindProgram, KindFunctionDecl, KindComponentDecl, KindBlock, KindForStmt:
		return true
	default:
		return false
	}
}

// IsDecl reports whether the node introduces a name.
func (k Kind) IsDecl() bool {
	switch k {
	case KindFunctionDecl, KindComponentDecl, KindVarDecl, KindParam:
		return true
	default:
		return false
	}
}

// ForKind distinguishes loop header shapes.
type ForKind uint8

const (
	ForNone    ForKind = iota
	ForEach            // for x in xs
	ForRange           // for i from a to b step c
	ForClassic         // for (init; cond; post)
)

func (k ForKind) String() string {
	switch k {
	case ForEach:
		return "each"
	case ForRange:
		return "range"
	case ForClassic:
		return "classic"
	}
	return "none"
}

type Flags uint8

const (
	// FlagPostTest marks a loop whose condition follows the body (do ... until).
	FlagPostTest Flags = 1 << iota
	// FlagNegated marks an until loop: it runs while the condition is false.
	FlagNegated
	// FlagInline marks a block written on its header line without a closer.
	FlagInline
	// FlagPostfix marks x++ / x--.
	FlagPostfix
	// FlagConst marks a const declaration.
	FlagConst
)

// Node is one tree node. Child slots are fixed per kind; an absent optional
// child is NoNodeID.
//
//	FunctionDecl  [Param..., Block]
//	ComponentDecl [Block]
//	VarDecl       [init]
//	IfStmt        [cond, then, else]
//	ForStmt       [start|iter|init, end|cond, step|post, body]
//	WhileStmt     [cond, body]
//	CallExpr      [callee, args...]
//	BinaryExpr    [lhs, rhs]
//	UnaryExpr     [x]
//	ReturnStmt    [value]
//	ExprStmt      [x]
//	Program/Block [stmts...]
type Node struct {
	Kind  Kind
	Span  source.Span
	Name  string           // declared or referenced name
	Op    keywords.Concept // canonical operator, output/input for builtin calls
	Lit   token.LitKind
	Text  string // literal text, raw text of Unknown
	Style scope.Style
	// Closed is false when the block ran to the end of its parent without a closer.
	Closed   bool
	Flags    Flags
	For      ForKind
	Children []NodeID
}

func (n *Node) Has(f Flags) bool { return n.Flags&f != 0 }

// Child returns the i-th child slot, or NoNodeID.
func (n *Node) Child(i int) NodeID {
	if n == nil || i < 0 || i >= len(n.Children) {
		return NoNodeID
	}
	return n.Children[i]
}
