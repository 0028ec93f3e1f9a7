package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned when a line does not match the grammar.
	ErrSyntax = errors.New("syntax error")

	// ErrInvalidWeight is returned when the weight digits do not fit an int64.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrDuplicateChild is returned when a child list names the same node twice.
	ErrDuplicateChild = errors.New("duplicate child")
)

// ParseError names the offending line. Line is 1-based, 0 when unknown.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("line %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
