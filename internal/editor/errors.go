package editor

import (
	"errors"
	"fmt"

	"github.com/skelly-dev/graft/internal/canon"
	"github.com/skelly-dev/graft/internal/syntax"
)

var (
	// ErrNotFound is returned when an address does not resolve and the
	// operation requires it to.
	ErrNotFound = errors.New("not found")

	// ErrNotDefinition is returned by SetDocstring for assignment targets.
	ErrNotDefinition = errors.New("not a class or function")
)

// ParseError reports program or new-code text that is not valid Python.
type ParseError = syntax.ParseError

// FormatError reports an edit whose output is not valid Python.
type FormatError = canon.FormatError

func notFound(addr string) error {
	return fmt.Errorf("address %q: %w", addr, ErrNotFound)
}
