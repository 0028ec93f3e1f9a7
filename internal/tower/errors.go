package tower

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skovmand/advent-of-code-2017/internal/grammar"
)

// Sentinel errors. Every failure of a diagnostic run wraps exactly one of
// these (or a grammar sentinel) so callers can match with errors.Is.
var (
	// ErrDuplicateName is returned when two lines define the same node.
	ErrDuplicateName = errors.New("duplicate node name")

	// ErrDanglingChild is returned when a child list names a node that is
	// never defined.
	ErrDanglingChild = errors.New("dangling child reference")

	// ErrMultipleParents is returned when a node is listed as the child of
	// more than one node.
	ErrMultipleParents = errors.New("node has more than one parent")

	// ErrNoRoot is returned when every node is some other node's child.
	ErrNoRoot = errors.New("no root found")

	// ErrMultipleRoots is returned when more than one node has no parent.
	ErrMultipleRoots = errors.New("multiple roots found")

	// ErrCycle is returned when a node cannot be reached from the root,
	// which given a single root and single parents means it sits on a cycle.
	ErrCycle = errors.New("node unreachable from root (cycle)")

	// ErrUnknownNode is returned when a weight is requested for a name the
	// tree does not contain.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDepthExceeded is returned by the aggregator's depth guard.
	ErrDepthExceeded = errors.New("maximum tree depth exceeded")

	// ErrUndiagnosable is returned when sibling weights at some level do not
	// single out exactly one odd sibling.
	ErrUndiagnosable = errors.New("imbalance is undiagnosable")

	// ErrNoImbalance is returned when the tree is already balanced.
	ErrNoImbalance = errors.New("no imbalance found")

	// ErrWeightOverflow is returned when a subtree total does not fit in an
	// int64.
	ErrWeightOverflow = errors.New("weight overflows int64")

	// ErrNonPositiveWeight is returned when the corrected weight would be
	// zero or negative.
	ErrNonPositiveWeight = errors.New("corrected weight is not positive")
)

// NodeError attaches the offending node name to a sentinel.
type NodeError struct {
	Name string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q: %v", e.Name, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// RootsError lists the parentless nodes when there is more than one.
type RootsError struct {
	Candidates []string
}

func (e *RootsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMultipleRoots, strings.Join(e.Candidates, ", "))
}

func (e *RootsError) Unwrap() error { return ErrMultipleRoots }

// UndiagnosableError identifies the level whose children could not be
// attributed to a single odd sibling.
type UndiagnosableError struct {
	Parent string
	Depth  int
	Groups []WeightGroup
}

func (e *UndiagnosableError) Error() string {
	parts := make([]string, 0, len(e.Groups))
	for _, g := range e.Groups {
		parts = append(parts, fmt.Sprintf("%d×%d [%s]", g.Count, g.Weight, strings.Join(g.Names, " ")))
	}
	return fmt.Sprintf("%v: children of %q at depth %d weigh %s",
		ErrUndiagnosable, e.Parent, e.Depth, strings.Join(parts, ", "))
}

func (e *UndiagnosableError) Unwrap() error { return ErrUndiagnosable }

// ErrorKind maps an error from Diagnose (or any stage of it) to a stable
// snake_case identifier, "internal" when it is none of the known kinds.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, grammar.ErrSyntax),
		errors.Is(err, grammar.ErrInvalidWeight),
		errors.Is(err, grammar.ErrDuplicateChild):
		return "parse_error"
	case errors.Is(err, ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, ErrDanglingChild):
		return "dangling_child"
	case errors.Is(err, ErrMultipleParents):
		return "multiple_parents"
	case errors.Is(err, ErrNoRoot):
		return "no_root"
	case errors.Is(err, ErrMultipleRoots):
		return "multiple_roots"
	case errors.Is(err, ErrCycle):
		return "cycle"
	case errors.Is(err, ErrUnknownNode):
		return "unknown_node"
	case errors.Is(err, ErrDepthExceeded):
		return "depth_exceeded"
	case errors.Is(err, ErrUndiagnosable):
		return "undiagnosable"
	case errors.Is(err, ErrNoImbalance):
		return "no_imbalance"
	case errors.Is(err, ErrWeightOverflow):
		return "weight_overflow"
	case errors.Is(err, ErrNonPositiveWeight):
		return "non_positive_weight"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "internal"
}
