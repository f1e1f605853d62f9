package grid

import (
	"errors"
	"fmt"
)

// Sentinel errors of the height engine. Typed errors below unwrap to them.
var (
	ErrParse      = errors.New("malformed grid source")
	ErrOutOfRange = errors.New("coordinate is out of range")
)

// ParseError reports a grid source that could not be loaded. A grid is never
// exposed when parsing fails.
type ParseError struct {
	Source string // Source names the file or stream being parsed.
	Line   int    // Line is the 1-based line number, zero when unknown.
	Err    error  // Err is the underlying cause.
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s at line %d: %v", e.Source, e.Line, e.Err)
	}

	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
}

// Unwrap makes errors.Is match both ErrParse and the cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// OutOfRangeError carries the offending value and axis of a rejected query.
type OutOfRangeError struct {
	Axis  Axis
	Value float64 // Value is the rejected degree, or the rejected index when Index is set.
	Index bool
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	if e.Index {
		return fmt.Sprintf("%s index %d is out of range [%d, %d)", e.Axis, int(e.Value), int(e.Min), int(e.Max))
	}

	return fmt.Sprintf("%s %v is out of range [%v, %v]", e.Axis, e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}
