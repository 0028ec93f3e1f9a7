// Package tower reconstructs a weighted tree from parsed descriptors and
// diagnoses the single node whose weight unbalances it.
package tower

import "sort"

// Node is one named, weighted entry. Children are names resolved through
// the owning Tree, never pointers.
type Node struct {
	Name     string
	Weight   int64
	Children []string
}

// Tree holds nodes keyed by name and the name of its unique root.
// It is immutable once built; a new input produces a new Tree.
type Tree struct {
	nodes  map[string]*Node // name → Node
	levels map[string]int   // name → level, root is 1
	root   string
	depth  int
}

// Root returns the name of the node that has no parent.
func (t *Tree) Root() string {
	return t.root
}

// Node returns a node by name (nil if not found).
func (t *Tree) Node(name string) *Node {
	return t.nodes[name]
}

// Children returns the child names of a node, nil for leaves and unknown names.
func (t *Tree) Children(name string) []string {
	if n := t.nodes[name]; n != nil {
		return n.Children
	}
	return nil
}

// Names returns every node name in lexical order.
func (t *Tree) Names() []string {
	out := make([]string, 0, len(t.nodes))
	for name := range t.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Level returns the node's level counted from the root (1), or 0 for
// unknown names.
func (t *Tree) Level(name string) int {
	return t.levels[name]
}

// Len returns the total number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Depth returns the number of levels, 1 for a lone root.
func (t *Tree) Depth() int {
	return t.depth
}
