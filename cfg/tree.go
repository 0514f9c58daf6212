package cfg

import (
	"strings"

	baobab "github.com/baobabgit/baobab-automata"
)

// ParseTree is a node of a derivation tree: a grammar symbol, an ordered
// list of owned children, and the [start, end) span of input positions the
// node covers. Parse trees are produced by the parse-with-tree operations
// of the cyk and earley packages and never mutated after construction.
type ParseTree struct {
	Symbol   *Symbol
	Children []*ParseTree
	Span     baobab.Span
}

// IsLeaf returns true for nodes without children (terminals and ε-nodes).
func (t *ParseTree) IsLeaf() bool {
	return len(t.Children) == 0
}

// Terminals returns the terminal names at the leaves, in order: the word
// this tree derives.
func (t *ParseTree) Terminals() []string {
	if t.IsLeaf() {
		if t.Symbol.IsTerminal() {
			return []string{t.Symbol.Name}
		}
		return nil // ε-node
	}
	var word []string
	for _, c := range t.Children {
		word = append(word, c.Terminals()...)
	}
	return word
}

// String renders the tree in bracketed form, e.g. "[S a [S ε] b]".
func (t *ParseTree) String() string {
	if t.IsLeaf() {
		if t.Symbol.IsTerminal() {
			return t.Symbol.Name
		}
		return "[" + t.Symbol.Name + " ε]"
	}
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(t.Symbol.Name)
	for _, c := range t.Children {
		b.WriteString(" ")
		b.WriteString(c.String())
	}
	b.WriteString("]")
	return b.String()
}
