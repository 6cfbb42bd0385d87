// Package ioreg reads the text tree printed by macOS ioreg(8).
//
// The format nests each child object two indent units deeper than its
// parent, marks object lines with "+-o", and prints an object's
// properties between "{" and "}" lines as `"Name" = value`. An indent unit
// is a space or a '|'. There is no explicit dedent marker: a return to a
// shallower level is inferred from the next object line.
package ioreg

import (
	"bufio"
	"context"
	"io"
	"iter"
	"slices"
	"strings"
)

// maxLineSize bounds a single line. ioreg -w0 never wraps, and dictionary
// properties such as BatteryData can run to several kilobytes.
const maxLineSize = 4 << 20

// Object is a node of the registry tree.
type Object struct {
	Name string `json:"name"`
	// ID is the token after the class marker, e.g. "AppleSmartBattery,".
	ID string `json:"id"`
}

// Property is a raw name/value pair from an object body. Value is the
// remainder of the line and is not interpreted.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Event is emitted once per property line.
type Event struct {
	// Stack is a copy of the open objects, outermost first.
	Stack    []Object `json:"stack"`
	Object   Object   `json:"object"`
	Property Property `json:"property"`
}

// Path joins the names on the stack with "/".
func (e Event) Path() string {
	names := make([]string, len(e.Stack))
	for i, o := range e.Stack {
		names[i] = o.Name
	}
	return strings.Join(names, "/")
}

// Scanner holds the per-scan state: the open object stack and whether the
// innermost object's body is open. A Scanner must not be shared between
// goroutines.
type Scanner struct {
	stack  []Object
	inBody bool
	line   int
}

// NewScanner returns a Scanner with an empty stack.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Depth returns the number of objects currently open.
func (s *Scanner) Depth() int {
	return len(s.stack)
}

// Feed processes one line. fn is called synchronously for a property
// line; an error from fn is returned unchanged.
func (s *Scanner) Feed(line string, fn func(Event) error) error {
	s.line++

	depth, ok := lineDepth(line)
	if !ok {
		return nil
	}

	if s.inBody {
		if line[depth] == '}' {
			s.inBody = false
			return nil
		}
		return s.property(line, depth, fn)
	}

	switch line[depth] {
	case '{':
		s.inBody = true
		return nil
	case '+':
		return s.object(line, depth)
	default:
		return s.errorf(line, ErrUnrecognizedLine)
	}
}

func (s *Scanner) property(line string, depth int, fn func(Event) error) error {
	nameStart := depth + 1
	nameLen := strings.IndexByte(line[nameStart:], '"')
	if nameLen < 0 {
		return s.errorf(line, ErrMalformedProperty)
	}
	if len(s.stack) == 0 {
		return nil
	}
	valueStart := nameStart + nameLen + len(`" = `)
	if valueStart > len(line) {
		return s.errorf(line, ErrMalformedProperty)
	}

	return fn(Event{
		Stack:  slices.Clone(s.stack),
		Object: s.stack[len(s.stack)-1],
		Property: Property{
			Name:  line[nameStart : nameStart+nameLen],
			Value: line[valueStart:],
		},
	})
}

func (s *Scanner) object(line string, depth int) error {
	if level := depth / 2; level < len(s.stack) {
		s.stack = s.stack[:level]
	}

	nameStart := depth + len("+-o ")
	if nameStart > len(line) {
		return s.errorf(line, ErrMalformedObject)
	}
	nameLen := strings.IndexByte(line[nameStart:], ' ')
	if nameLen < 0 {
		return s.errorf(line, ErrMalformedObject)
	}

	idStart := nameStart + nameLen + len("  <class ")
	if idStart > len(line) {
		return s.errorf(line, ErrMalformedObject)
	}
	idLen := strings.IndexByte(line[idStart:], ' ')
	if idLen < 0 {
		return s.errorf(line, ErrMalformedObject)
	}

	s.stack = append(s.stack, Object{
		Name: line[nameStart : nameStart+nameLen],
		ID:   line[idStart : idStart+idLen],
	})
	return nil
}

func (s *Scanner) errorf(line string, err error) error {
	return &LineError{Line: s.line, Text: line, Err: err}
}

// lineDepth returns the index of the first byte that is not an indent
// unit. ok is false for a line made only of indent units.
func lineDepth(line string) (depth int, ok bool) {
	for i := 0; i < len(line); i++ {
		if c := line[i]; c != ' ' && c != '|' {
			return i, true
		}
	}
	return len(line), false
}

// Scan reads r line by line and calls fn for every property line.
func Scan(r io.Reader, fn func(Event) error) error {
	return ScanContext(context.Background(), r, fn)
}

// ScanContext is Scan with cancellation checked before each line.
func ScanContext(ctx context.Context, r io.Reader, fn func(Event) error) error {
	s := NewScanner()
	sc := newLineScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Feed(sc.Text(), fn); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Events returns the property events of r as an iterator. Iteration stops
// after the first error is yielded.
func Events(r io.Reader) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		stop := false
		err := Scan(r, func(ev Event) error {
			if !yield(ev, nil) {
				stop = true
				return errStopped
			}
			return nil
		})
		if stop || err == nil {
			return
		}
		yield(Event{}, err)
	}
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}
