// Package editor applies structural edits to Python source addressed by
// dotted declaration paths.
package editor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/skelly-dev/graft/internal/address"
	"github.com/skelly-dev/graft/internal/canon"
	"github.com/skelly-dev/graft/internal/syntax"
)

// Operation names an edit.
type Operation string

const (
	OpCreate       Operation = "create"
	OpReplace      Operation = "replace"
	OpRemove       Operation = "remove"
	OpInsertBefore Operation = "insert_before"
	OpInsertAfter  Operation = "insert_after"
	OpSetDocstring Operation = "set_docstring"
)

// ParseOperation accepts both the underscore and dash spellings.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch op {
	case OpCreate, OpReplace, OpRemove, OpInsertBefore, OpInsertAfter, OpSetDocstring:
		return op, nil
	case "docstring":
		return OpSetDocstring, nil
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// Edit is one operation against one address. Code is the new code for
// create, replace and insert operations and the docstring text for
// set_docstring.
type Edit struct {
	Op      Operation
	Address string
	Code    string
}

// Result is the outcome of an edit.
type Result struct {
	Text string

	// Found reports whether the address resolved before the edit. Create
	// reports true whenever the declaration exists afterwards.
	Found bool

	// Formatted is false when the canonical formatter declined the output
	// and the unformatted render was returned instead.
	Formatted bool
}

// Editor applies edits. The zero value is not usable; call New.
type Editor struct {
	format *canon.Formatter
	logger *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithFormatter sets the canonicalizer used after every mutation.
func WithFormatter(f *canon.Formatter) Option {
	return func(e *Editor) {
		e.format = f
	}
}

// WithLogger enables debug logging of applied edits.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// New returns an Editor using the default formatter.
func New(opts ...Option) *Editor {
	e := &Editor{format: canon.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply parses src, performs edit, and returns the re-rendered program.
func (e *Editor) Apply(src string, edit Edit) (Result, error) {
	addr, err := address.Parse(edit.Address)
	if err != nil {
		return Result{}, err
	}
	prog, err := syntax.Parse([]byte(src))
	if err != nil {
		return Result{}, err
	}

	var found bool
	switch edit.Op {
	case OpSetDocstring:
		found, err = setDocstring(prog, addr, edit.Code)
	case OpRemove:
		found, err = e.mutate(prog, addr, edit.Op, nil)
	case OpCreate, OpReplace, OpInsertBefore, OpInsertAfter:
		var nodes []*syntax.Node
		nodes, err = parseFragment(edit.Code)
		if err != nil {
			return Result{}, fmt.Errorf("new code: %w", err)
		}
		found, err = e.mutate(prog, addr, edit.Op, nodes)
	default:
		err = fmt.Errorf("unknown operation %q", edit.Op)
	}
	if err != nil {
		return Result{}, err
	}

	res, err := e.render(prog)
	if err != nil {
		return Result{}, err
	}
	res.Found = found
	if e.logger != nil {
		e.logger.Debug("edit applied",
			"op", string(edit.Op),
			"address", addr.String(),
			"found", found,
			"formatted", res.Formatted,
			"bytes", len(res.Text),
		)
	}
	return res, nil
}

func (e *Editor) mutate(prog *syntax.Program, addr address.Address, op Operation, nodes []*syntax.Node) (bool, error) {
	switch op {
	case OpReplace:
		if !rewrite(prog, addr, replaceWith(nodes)) {
			return false, notFound(addr.String())
		}
		return true, nil
	case OpRemove:
		if !rewrite(prog, addr, removeNode) {
			return false, notFound(addr.String())
		}
		return true, nil
	case OpInsertBefore:
		if rewrite(prog, addr, insertBefore(nodes)) {
			return true, nil
		}
		return false, create(prog, addr, nodes)
	case OpInsertAfter:
		if rewrite(prog, addr, insertAfter(nodes)) {
			return true, nil
		}
		return false, create(prog, addr, nodes)
	case OpCreate:
		if _, ok := address.Resolve(prog, addr); ok {
			return true, nil
		}
		if err := create(prog, addr, nodes); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, fmt.Errorf("unknown operation %q", op)
}

// create appends nodes to the container of addr. A missing container is an
// error; containers are never synthesized.
func create(prog *syntax.Program, addr address.Address, nodes []*syntax.Node) error {
	container := addr.Container()
	if container.IsRoot() {
		prog.Body = append(prog.Body, nodes...)
		return nil
	}
	if _, ok := address.ResolveContainer(prog, addr); !ok {
		return fmt.Errorf("container %q: %w", container.String(), ErrNotFound)
	}
	rewrite(prog, container, appendBody(nodes))
	return nil
}

// render serializes prog and canonicalizes the result, falling back to the
// unformatted render when the formatter declines it.
func (e *Editor) render(prog *syntax.Program) (Result, error) {
	style := e.format.Style()
	style.Canonical = false
	text := syntax.Render(prog, style)

	out, err := e.format.Format(text)
	if err == nil {
		return Result{Text: out, Formatted: true}, nil
	}
	if e.format.Valid(text) {
		return Result{Text: text}, nil
	}
	return Result{}, err
}

// parseFragment parses new code into top-level nodes marked as synthesized.
func parseFragment(code string) ([]*syntax.Node, error) {
	code = syntax.Dedent(code)
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}
	frag, err := syntax.Parse([]byte(code))
	if err != nil {
		return nil, err
	}
	for _, n := range frag.Body {
		n.Span = syntax.Span{}
	}
	if len(frag.Body) > 0 {
		frag.Body[0].Blank = 0
	}
	return frag.Body, nil
}

var defaultEditor = New()

// Create appends code into the container of addr unless addr already exists.
func Create(src, addr, code string) (string, error) {
	return apply(src, Edit{Op: OpCreate, Address: addr, Code: code})
}

// Replace splices code in place of the declaration at addr.
func Replace(src, addr, code string) (string, error) {
	return apply(src, Edit{Op: OpReplace, Address: addr, Code: code})
}

// Remove deletes the declaration at addr.
func Remove(src, addr string) (string, error) {
	return apply(src, Edit{Op: OpRemove, Address: addr})
}

// InsertBefore splices code before addr, or creates it when addr is missing.
func InsertBefore(src, addr, code string) (string, error) {
	return apply(src, Edit{Op: OpInsertBefore, Address: addr, Code: code})
}

// InsertAfter splices code after addr, or creates it when addr is missing.
func InsertAfter(src, addr, code string) (string, error) {
	return apply(src, Edit{Op: OpInsertAfter, Address: addr, Code: code})
}

// SetDocstring replaces or inserts the docstring of the class or function at
// addr.
func SetDocstring(src, addr, doc string) (string, error) {
	return apply(src, Edit{Op: OpSetDocstring, Address: addr, Code: doc})
}

func apply(src string, edit Edit) (string, error) {
	res, err := defaultEditor.Apply(src, edit)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
