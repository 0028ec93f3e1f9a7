package tower

import (
	"fmt"
	"sort"

	"github.com/skovmand/advent-of-code-2017/internal/grammar"
)

// Build assembles parsed descriptors into a Tree and determines its root.
// Input order does not matter. The result is verified to be a single tree:
// no duplicates, no dangling children, one parent per node, one root and
// every node reachable from it.
func Build(descs []grammar.Descriptor) (*Tree, error) {
	t := &Tree{nodes: make(map[string]*Node, len(descs))}
	for _, d := range descs {
		if _, ok := t.nodes[d.Name]; ok {
			return nil, &NodeError{Name: d.Name, Err: ErrDuplicateName}
		}
		children := make([]string, len(d.Children))
		copy(children, d.Children)
		t.nodes[d.Name] = &Node{Name: d.Name, Weight: d.Weight, Children: children}
	}

	// Walk descriptors, not the map, so the first reported problem is stable.
	parents := make(map[string]string, len(descs))
	for _, d := range descs {
		for _, child := range d.Children {
			if _, ok := t.nodes[child]; !ok {
				return nil, &NodeError{Name: child, Err: fmt.Errorf("%w (listed by %q)", ErrDanglingChild, d.Name)}
			}
			if prev, ok := parents[child]; ok {
				return nil, &NodeError{Name: child, Err: fmt.Errorf("%w (%q and %q)", ErrMultipleParents, prev, d.Name)}
			}
			parents[child] = d.Name
		}
	}

	root, err := findRoot(t.nodes, parents)
	if err != nil {
		return nil, err
	}
	t.root = root

	depth, err := validateReachable(t)
	if err != nil {
		return nil, err
	}
	t.depth = depth
	return t, nil
}

// findRoot returns the one name that is nobody's child.
func findRoot(nodes map[string]*Node, parents map[string]string) (string, error) {
	var candidates []string
	for name := range nodes {
		if _, hasParent := parents[name]; !hasParent {
			candidates = append(candidates, name)
		}
	}
	switch len(candidates) {
	case 0:
		return "", ErrNoRoot
	case 1:
		return candidates[0], nil
	}
	sort.Strings(candidates)
	return "", &RootsError{Candidates: candidates}
}

// validateReachable walks the tree from the root with an explicit stack,
// records every node's level and returns the depth. Any node left
// unvisited lies on a cycle that the root-and-parent checks alone cannot
// see.
func validateReachable(t *Tree) (int, error) {
	type frame struct {
		name  string
		level int
	}
	visited := make(map[string]struct{}, len(t.nodes))
	t.levels = make(map[string]int, len(t.nodes))
	stack := []frame{{name: t.root, level: 1}}
	depth := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[f.name]; seen {
			return 0, &NodeError{Name: f.name, Err: ErrCycle}
		}
		visited[f.name] = struct{}{}
		t.levels[f.name] = f.level
		if f.level > depth {
			depth = f.level
		}
		for _, child := range t.nodes[f.name].Children {
			stack = append(stack, frame{name: child, level: f.level + 1})
		}
	}
	if len(visited) == len(t.nodes) {
		return depth, nil
	}
	for _, name := range t.Names() {
		if _, ok := visited[name]; !ok {
			return 0, &NodeError{Name: name, Err: ErrCycle}
		}
	}
	return depth, nil
}
