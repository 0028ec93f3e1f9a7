package tower

import (
	"context"
	"fmt"

	"github.com/skovmand/advent-of-code-2017/internal/grammar"
)

// Step records one level of the descent: the children of Parent were
// unbalanced and Child was the odd one out.
type Step struct {
	Parent       string `json:"parent" yaml:"parent"`
	Child        string `json:"child" yaml:"child"`
	OddWeight    int64  `json:"odd_weight" yaml:"odd_weight"`
	NormalWeight int64  `json:"normal_weight" yaml:"normal_weight"`
}

// Correction is the result of a successful diagnostic.
type Correction struct {
	Root            string `json:"root" yaml:"root"`
	Target          string `json:"target" yaml:"target"`
	Weight          int64  `json:"weight" yaml:"weight"`
	CorrectedWeight int64  `json:"corrected_weight" yaml:"corrected_weight"`
	TotalWeight     int64  `json:"total_weight" yaml:"total_weight"`
	SiblingWeight   int64  `json:"sibling_weight" yaml:"sibling_weight"`
	Path            []Step `json:"path" yaml:"path"`
	Nodes           int    `json:"nodes" yaml:"nodes"`
	Depth           int    `json:"depth" yaml:"depth"`
}

// FindCorrection starts at the root and follows the odd child down while
// each level's children single one out. The node reached when its own
// children balance (or it has none) is the target, and its weight is
// shifted by the difference seen one level above it.
func FindCorrection(ctx context.Context, t *Tree, opts ...AggregatorOption) (*Correction, error) {
	agg := NewAggregator(t, opts...)

	var path []Step
	current := t.Root()
	for depth := 0; ; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		siblings, err := agg.SiblingWeights(ctx, current)
		if err != nil {
			return nil, err
		}
		imb := DetectImbalance(siblings)
		if imb.Kind == KindUndiagnosable {
			return nil, &UndiagnosableError{Parent: current, Depth: depth, Groups: imb.Groups}
		}
		if imb.Kind != KindOdd {
			break
		}
		path = append(path, Step{
			Parent:       current,
			Child:        imb.Odd.Name,
			OddWeight:    imb.Odd.TotalWeight,
			NormalWeight: imb.NormalWeight,
		})
		current = imb.Odd.Name
	}

	if len(path) == 0 {
		return nil, ErrNoImbalance
	}

	last := path[len(path)-1]
	target := t.Node(current)
	// Weight is part of OddWeight, so the result never exceeds NormalWeight.
	corrected := target.Weight - (last.OddWeight - last.NormalWeight)
	if corrected <= 0 {
		return nil, &NodeError{Name: current, Err: fmt.Errorf("%w (%d)", ErrNonPositiveWeight, corrected)}
	}

	return &Correction{
		Root:            t.Root(),
		Target:          current,
		Weight:          target.Weight,
		CorrectedWeight: corrected,
		TotalWeight:     last.OddWeight,
		SiblingWeight:   last.NormalWeight,
		Path:            path,
		Nodes:           t.Len(),
		Depth:           t.Depth(),
	}, nil
}

// Load parses text and builds the tree.
func Load(text string) (*Tree, error) {
	descs, err := grammar.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	t, err := Build(descs)
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	return t, nil
}

// Diagnose runs the whole pipeline over text: parse, build, correct.
func Diagnose(ctx context.Context, text string, opts ...AggregatorOption) (*Correction, error) {
	t, err := Load(text)
	if err != nil {
		return nil, err
	}
	return FindCorrection(ctx, t, opts...)
}
