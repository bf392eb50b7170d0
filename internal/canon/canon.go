// Package canon formats Python programs into a canonical layout and checks
// that text is syntactically valid.
package canon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skelly-dev/graft/internal/syntax"
)

// ErrUnsupported marks input the formatter declines to rewrite even though
// it may be valid Python.
var ErrUnsupported = errors.New("unsupported input")

// FormatError is returned when text cannot be formatted.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Formatter renders programs with a fixed style.
type Formatter struct {
	style syntax.Style
}

// New returns a formatter indenting by indent spaces and keeping at most
// maxBlank blank lines between ordinary statements.
func New(indent, maxBlank int) *Formatter {
	if indent <= 0 {
		indent = 4
	}
	if maxBlank < 0 {
		maxBlank = 0
	}
	return &Formatter{style: syntax.Style{
		Indent:    strings.Repeat(" ", indent),
		Canonical: true,
		MaxBlank:  maxBlank,
	}}
}

// Default returns the four-space formatter.
func Default() *Formatter {
	return New(4, 2)
}

// Style returns the formatter's canonical style.
func (f *Formatter) Style() syntax.Style {
	return f.style
}

// Format re-renders text in canonical form. Tab-indented programs are
// rejected with ErrUnsupported.
func (f *Formatter) Format(text string) (string, error) {
	prog, err := syntax.Parse([]byte(text))
	if err != nil {
		return "", &FormatError{Err: err}
	}
	if prog.TabIndented {
		return "", &FormatError{Err: fmt.Errorf("%w: tab indentation", ErrUnsupported)}
	}
	return syntax.Render(prog, f.style), nil
}

// Valid reports whether text parses as a Python program.
func (f *Formatter) Valid(text string) bool {
	return syntax.Valid([]byte(text))
}

// Format formats text with the default formatter.
func Format(text string) (string, error) {
	return Default().Format(text)
}

// Valid reports whether text parses as a Python program.
func Valid(text string) bool {
	return syntax.Valid([]byte(text))
}
