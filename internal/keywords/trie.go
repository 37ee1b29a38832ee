package keywords

// trieNode is one word of a multi-word surface. Single words are depth-1 paths.
type trieNode struct {
	children map[string]*trieNode
	concept  Concept
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

func (n *trieNode) insert(words []string, c Concept) {
	node := n
	for _, w := range words {
		child := node.children[w]
		if child == nil {
			child = newTrieNode()
			node.children[w] = child
		}
		node = child
	}
	node.concept = c
}

// HasPhrase reports whether some multi-word surface starts with word.
// The lexer uses it to avoid lookahead for plain identifiers.
func (r *Registry) HasPhrase(word string) bool {
	child := r.words.children[word]
	return child != nil && len(child.children) > 0
}
