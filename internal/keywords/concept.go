package keywords

// Concept is the canonical id of a language construct or operation,
// independent of the surface spelling that produced it.
type Concept uint16

const (
	// None means "not a registered surface".
	None Concept = iota

	FunctionDecl
	EndFunction
	ComponentDecl
	EndComponent
	VarDecl
	Return
	If
	Then
	ElseIf
	Else
	EndIf
	For
	In
	From
	Step
	EndFor
	While
	Do
	Until
	EndWhile
	End
	Break
	Continue
	Output
	Input

	Assign
	Eq
	Ne
	Gt
	Ge
	Lt
	Le
	And
	Or
	Not
	Add
	Sub
	Mul
	Div
	Mod
	Pow
	Inc
	Dec

	True
	False
	Null

	conceptCount
)

var conceptNames = [...]string{
	None:          "none",
	FunctionDecl:  "function_decl",
	EndFunction:   "end_function",
	ComponentDecl: "component_decl",
	EndComponent:  "end_component",
	VarDecl:       "var_decl",
	Return:        "return",
	If:            "if",
	Then:          "then",
	ElseIf:        "else_if",
	Else:          "else",
	EndIf:         "end_if",
	For:           "for",
	In:            "in",
	From:          "from",
	Step:          "step",
	EndFor:        "end_for",
	While:         "while",
	Do:            "do",
	Until:         "until",
	EndWhile:      "end_while",
	End:           "end",
	Break:         "break",
	Continue:      "continue",
	Output:        "output",
	Input:         "input",
	Assign:        "assign",
	Eq:            "eq",
	Ne:            "ne",
	Gt:            "gt",
	Ge:            "ge",
	Lt:            "lt",
	Le:            "le",
	And:           "and",
	Or:            "or",
	Not:           "not",
	Add:           "add",
	Sub:           "sub",
	Mul:           "mul",
	Div:           "div",
	Mod:           "mod",
	Pow:           "pow",
	Inc:           "inc",
	Dec:           "dec",
	True:          "true",
	False:         "false",
	Null:          "null",
}

func (c Concept) String() string {
	if int(c) < len(conceptNames) {
		return conceptNames[c]
	}
	return "concept(?)"
}

// ParseConcept maps a stable snake_case name back to its Concept.
func ParseConcept(name string) (Concept, bool) {
	for c := Concept(1); c < conceptCount; c++ {
		if conceptNames[c] == name {
			return c, true
		}
	}
	return None, false
}

// Class groups concepts by how the lexer reports them.
type Class uint8

const (
	ClassKeyword Class = iota
	ClassOperator
	ClassLiteral
)

func (c Class) String() string {
	switch c {
	case ClassKeyword:
		return "keyword"
	case ClassOperator:
		return "operator"
	case ClassLiteral:
		return "literal"
	default:
		return "class(?)"
	}
}

// openers lists the block-opening concepts and the closers each accepts.
// The generic End closes any of them.
var openers = map[Concept][]Concept{
	FunctionDecl:  {EndFunction, End},
	ComponentDecl: {EndComponent, End},
	If:            {EndIf, End},
	For:           {EndFor, End},
	While:         {EndWhile, End},
	Do:            {Until, End},
}

// Closers returns the closing concepts accepted by opener c (nil if c opens no block).
func Closers(c Concept) []Concept {
	return openers[c]
}

// IsOpener reports whether c starts a block construct.
func IsOpener(c Concept) bool {
	_, ok := openers[c]
	return ok
}

// IsCloser reports whether c ends a block construct.
func IsCloser(c Concept) bool {
	switch c {
	case EndFunction, EndComponent, EndIf, EndFor, EndWhile, End, Until:
		return true
	default:
		return false
	}
}

// Closes reports whether closer ends a block opened by opener.
func Closes(opener, closer Concept) bool {
	for _, c := range openers[opener] {
		if c == closer {
			return true
		}
	}
	return false
}

// StartsStatement reports whether c may begin a statement.
func StartsStatement(c Concept) bool {
	switch c {
	case FunctionDecl, ComponentDecl, VarDecl, Return, If, For, While, Do,
		Break, Continue, Output, Input:
		return true
	default:
		return false
	}
}
