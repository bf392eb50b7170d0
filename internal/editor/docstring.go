package editor

import (
	"fmt"

	"github.com/skelly-dev/graft/internal/address"
	"github.com/skelly-dev/graft/internal/syntax"
)

// setDocstring replaces the leading docstring of the definition at addr, or
// inserts one when it has none.
func setDocstring(prog *syntax.Program, addr address.Address, doc string) (bool, error) {
	m, ok := address.Resolve(prog, addr)
	if !ok {
		return false, notFound(addr.String())
	}
	if !m.Node.Kind.IsDefinition() {
		return true, fmt.Errorf("address %q is a %s: %w", addr.String(), m.Node.Kind, ErrNotDefinition)
	}

	rewrite(prog, addr, func(lead []*syntax.Node, n *syntax.Node) []*syntax.Node {
		fresh := syntax.NewDocstring(doc)
		if existing, i := n.Docstring(); existing != nil {
			fresh.Blank = existing.Blank
			n.Body[i] = fresh
			return append(lead, n)
		}
		n.Body = append([]*syntax.Node{fresh}, n.Body...)
		return append(lead, n)
	})
	return true, nil
}
