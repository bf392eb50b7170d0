// Package address parses dotted declaration paths and resolves them against
// a parsed program.
package address

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/skelly-dev/graft/internal/syntax"
)

// ErrInvalidAddress is returned for addresses that are not dot-joined
// identifiers.
var ErrInvalidAddress = errors.New("invalid address")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Address is a parsed dotted path such as "Outer.Inner.method".
type Address []string

// Parse splits s into identifiers. Matching is case-sensitive and dots
// cannot be escaped.
func Parse(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	parts := strings.Split(s, ".")
	for _, part := range parts {
		if !identPattern.MatchString(part) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
	}
	return Address(parts), nil
}

func (a Address) String() string {
	return strings.Join(a, ".")
}

// Leaf is the final segment.
func (a Address) Leaf() string {
	if len(a) == 0 {
		return ""
	}
	return a[len(a)-1]
}

// Container is the address of the enclosing class, empty for the root.
func (a Address) Container() Address {
	if len(a) <= 1 {
		return nil
	}
	return a[:len(a)-1]
}

// IsRoot reports whether the address names the program root.
func (a Address) IsRoot() bool {
	return len(a) == 0
}

// Match is a resolved declaration together with the body that holds it.
type Match struct {
	Node   *syntax.Node
	Parent *syntax.Node // nil when the declaration sits at the program root
	Index  int
	Path   Address
}

// Body returns the slice the matched node lives in.
func (m Match) Body(prog *syntax.Program) []*syntax.Node {
	if m.Parent == nil {
		return prog.Body
	}
	return m.Parent.Body
}

// Resolve finds the first declaration, in depth-first pre-order over class
// bodies, whose qualified name equals addr. Functions are not searched.
func Resolve(prog *syntax.Program, addr Address) (Match, bool) {
	var found Match
	ok := false
	Walk(prog, func(m Match) bool {
		if slices.Equal(m.Path, addr) {
			found = m
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// ResolveContainer returns the body owner for addr's container: nil with
// true for the root, or the resolved class.
func ResolveContainer(prog *syntax.Program, addr Address) (*syntax.Node, bool) {
	container := addr.Container()
	if container.IsRoot() {
		return nil, true
	}
	m, ok := Resolve(prog, container)
	if !ok || m.Node.Kind != syntax.KindClass {
		return nil, false
	}
	return m.Node, true
}

// Walk visits every addressable declaration in depth-first pre-order,
// descending into classes only. Returning false from fn stops the walk.
func Walk(prog *syntax.Program, fn func(Match) bool) {
	walk(prog.Body, nil, nil, fn)
}

func walk(body []*syntax.Node, parent *syntax.Node, prefix Address, fn func(Match) bool) bool {
	for i, n := range body {
		if !n.Kind.IsDeclaration() {
			continue
		}
		path := make(Address, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = n.Name
		if !fn(Match{Node: n, Parent: parent, Index: i, Path: path}) {
			return false
		}
		if n.Kind == syntax.KindClass {
			if !walk(n.Body, n, path, fn) {
				return false
			}
		}
	}
	return true
}
