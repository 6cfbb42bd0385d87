package ioreg

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedProperty reports a property line without a closing quote
	// on its name, or too short to hold a value.
	ErrMalformedProperty = errors.New("malformed property")
	// ErrMalformedObject reports an object line without a name or id terminator.
	ErrMalformedObject = errors.New("malformed object")
	// ErrUnrecognizedLine reports a line outside a body that is neither an
	// object line nor "{".
	ErrUnrecognizedLine = errors.New("unrecognized line")

	errStopped = errors.New("iteration stopped")
)

// LineError locates a format error in the input.
type LineError struct {
	Line int    // 1-based
	Text string // offending line
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("ioreg line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
