package tower

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// Sibling pairs a child name with its total (subtree) weight.
type Sibling struct {
	Name        string `json:"name" yaml:"name"`
	TotalWeight int64  `json:"total_weight" yaml:"total_weight"`
}

// NodeWeight is a node's own and total weight.
type NodeWeight struct {
	Name        string `json:"name" yaml:"name"`
	Weight      int64  `json:"weight" yaml:"weight"`
	TotalWeight int64  `json:"total_weight" yaml:"total_weight"`
}

// AggregatorOption tunes an Aggregator.
type AggregatorOption func(*Aggregator)

// WithMaxDepth bounds the tree level aggregation may reach, counting the
// root as level 1 wherever aggregation starts. Zero or negative disables
// the guard.
func WithMaxDepth(n int) AggregatorOption {
	return func(a *Aggregator) {
		a.maxDepth = n
	}
}

// WithConcurrency lets SiblingWeights aggregate up to n child subtrees in
// parallel. Values below 2 keep aggregation sequential.
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

// Aggregator computes total weights over an immutable Tree. Results are
// memoised for the lifetime of the Aggregator, which should not outlive a
// single diagnostic run. It is not safe for concurrent use.
type Aggregator struct {
	tree        *Tree
	memo        map[string]int64
	maxDepth    int
	concurrency int
}

// NewAggregator returns an Aggregator over t.
func NewAggregator(t *Tree, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{tree: t, memo: make(map[string]int64)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fork returns an aggregator sharing the tree and limits but with its own memo.
func (a *Aggregator) fork() *Aggregator {
	return &Aggregator{tree: a.tree, memo: make(map[string]int64), maxDepth: a.maxDepth}
}

// TotalWeight returns the node's own weight plus the total weight of all
// its descendants.
func (a *Aggregator) TotalWeight(name string) (int64, error) {
	return a.total(name, max(a.tree.Level(name), 1))
}

func (a *Aggregator) total(name string, level int) (int64, error) {
	if w, ok := a.memo[name]; ok {
		return w, nil
	}
	if a.maxDepth > 0 && level > a.maxDepth {
		return 0, &NodeError{Name: name, Err: fmt.Errorf("%w (limit %d)", ErrDepthExceeded, a.maxDepth)}
	}
	n := a.tree.Node(name)
	if n == nil {
		return 0, &NodeError{Name: name, Err: ErrUnknownNode}
	}
	sum := n.Weight
	for _, child := range n.Children {
		w, err := a.total(child, level+1)
		if err != nil {
			return 0, err
		}
		if w > math.MaxInt64-sum {
			return 0, &NodeError{Name: name, Err: ErrWeightOverflow}
		}
		sum += w
	}
	a.memo[name] = sum
	return sum, nil
}

// SiblingWeights returns the total weight of every child of parent, in
// child order.
func (a *Aggregator) SiblingWeights(ctx context.Context, parent string) ([]Sibling, error) {
	if a.tree.Node(parent) == nil {
		return nil, &NodeError{Name: parent, Err: ErrUnknownNode}
	}
	children := a.tree.Children(parent)
	out := make([]Sibling, len(children))
	if a.concurrency < 2 || len(children) < 2 {
		for i, child := range children {
			w, err := a.TotalWeight(child)
			if err != nil {
				return nil, err
			}
			out[i] = Sibling{Name: child, TotalWeight: w}
		}
		return out, nil
	}

	// Child subtrees are disjoint, so each goroutine works on its own fork
	// and only reads the shared tree.
	forks := make([]*Aggregator, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, child := range children {
		i, child := i, child
		out[i].Name = child
		if w, ok := a.memo[child]; ok {
			out[i].TotalWeight = w
			continue
		}
		forks[i] = a.fork()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w, err := forks[i].TotalWeight(child)
			if err != nil {
				return err
			}
			out[i].TotalWeight = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, f := range forks {
		if f == nil {
			continue
		}
		for name, w := range f.memo {
			a.memo[name] = w
		}
	}
	return out, nil
}

// All returns own and total weights for every node, ordered by name. ctx
// is checked between nodes.
func (a *Aggregator) All(ctx context.Context) ([]NodeWeight, error) {
	names := a.tree.Names()
	out := make([]NodeWeight, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		total, err := a.TotalWeight(name)
		if err != nil {
			return nil, err
		}
		out = append(out, NodeWeight{Name: name, Weight: a.tree.Node(name).Weight, TotalWeight: total})
	}
	return out, nil
}
