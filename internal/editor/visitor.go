package editor

import (
	"slices"
	"strings"

	"github.com/skelly-dev/graft/internal/address"
	"github.com/skelly-dev/graft/internal/syntax"
)

// A visitor maps the matched declaration to the nodes that take its place:
// none to delete it, one to keep or modify it, several to splice. lead holds
// the comments written directly above n; the result replaces lead and n.
type visitor func(lead []*syntax.Node, n *syntax.Node) []*syntax.Node

// rewrite applies v to the first declaration of prog whose qualified name is
// target. Every other node is carried over unchanged.
func rewrite(prog *syntax.Program, target address.Address, v visitor) bool {
	body, ok := rewriteBody(prog.Body, nil, target, v)
	prog.Body = body
	return ok
}

func rewriteBody(body []*syntax.Node, prefix, target address.Address, v visitor) ([]*syntax.Node, bool) {
	for i, n := range body {
		if !n.Kind.IsDeclaration() {
			continue
		}
		path := append(prefix[:len(prefix):len(prefix)], n.Name)
		if slices.Equal(path, target) {
			k := leadStart(body, i)
			out := make([]*syntax.Node, 0, len(body))
			out = append(out, body[:k]...)
			out = append(out, v(slices.Clip(body[k:i]), n)...)
			out = append(out, body[i+1:]...)
			return out, true
		}
		if n.Kind != syntax.KindClass || len(target) <= len(path) || !slices.Equal(target[:len(path)], path) {
			continue
		}
		if nested, ok := rewriteBody(n.Body, path, target, v); ok {
			n.Body = nested
			return body, true
		}
	}
	return body, false
}

// leadStart returns the index of the first comment in the unbroken run of
// comments directly above body[i].
func leadStart(body []*syntax.Node, i int) int {
	k := i
	for k > 0 && body[k].Blank == 0 && body[k-1].Kind == syntax.KindComment {
		k--
	}
	return k
}

func replaceWith(nodes []*syntax.Node) visitor {
	return func(lead []*syntax.Node, n *syntax.Node) []*syntax.Node {
		if len(nodes) > 0 {
			nodes[0].Blank = n.Blank
		}
		return append(lead, nodes...)
	}
}

func removeNode(lead []*syntax.Node, _ *syntax.Node) []*syntax.Node {
	return lead
}

func insertBefore(nodes []*syntax.Node) visitor {
	return func(lead []*syntax.Node, n *syntax.Node) []*syntax.Node {
		kept := append(lead, n)
		if len(nodes) == 0 {
			return kept
		}
		nodes[0].Blank = kept[0].Blank
		kept[0].Blank = 0
		return append(nodes, kept...)
	}
}

func insertAfter(nodes []*syntax.Node) visitor {
	return func(lead []*syntax.Node, n *syntax.Node) []*syntax.Node {
		return append(append(lead, n), nodes...)
	}
}

// appendBody adds nodes to the end of a definition body. A lone pass
// placeholder is dropped once the body gets real code.
func appendBody(nodes []*syntax.Node) visitor {
	return func(lead []*syntax.Node, n *syntax.Node) []*syntax.Node {
		if hasCode(nodes) {
			n.Body = dropPlaceholder(n.Body)
		}
		n.Body = append(n.Body, nodes...)
		return append(lead, n)
	}
}

func hasCode(nodes []*syntax.Node) bool {
	return slices.ContainsFunc(nodes, func(n *syntax.Node) bool {
		return n.Kind != syntax.KindComment
	})
}

func isPass(n *syntax.Node) bool {
	return n.Kind == syntax.KindStatement && strings.TrimSpace(n.Header.Text()) == "pass"
}

// dropPlaceholder removes the pass statement from a body whose only code,
// besides a docstring, is that pass.
func dropPlaceholder(body []*syntax.Node) []*syntax.Node {
	at := -1
	for i, n := range body {
		switch {
		case n.Kind == syntax.KindComment || n.Kind == syntax.KindDocstring:
		case isPass(n) && at < 0:
			at = i
		default:
			return body
		}
	}
	if at < 0 {
		return body
	}
	return slices.Delete(slices.Clone(body), at, at+1)
}
