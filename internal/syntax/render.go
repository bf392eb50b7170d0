package syntax

import (
	"strings"
)

// Style controls rendering.
type Style struct {
	// Indent is the indentation unit for each nesting level.
	Indent string

	// Canonical applies the canonical blank-line and docstring policy to every
	// node. Otherwise parsed nodes keep their original spacing and the
	// program's own indentation unit is used.
	Canonical bool

	// MaxBlank caps the blank lines kept between ordinary statements.
	MaxBlank int
}

// DefaultStyle is the canonical style with four-space indentation.
func DefaultStyle() Style {
	return Style{Indent: "    ", Canonical: true, MaxBlank: 2}
}

// Render serializes prog. The result is empty for an empty program and
// otherwise ends with exactly one newline.
func Render(prog *Program, style Style) string {
	r := &renderer{style: style, unit: style.Indent}
	if r.unit == "" {
		r.unit = "    "
	}
	if !style.Canonical && prog.Indent != "" {
		r.unit = prog.Indent
	}
	r.block(prog.Body, 0)

	out := strings.TrimRight(r.b.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

type renderer struct {
	style Style
	unit  string
	b     strings.Builder
}

func (r *renderer) block(nodes []*Node, depth int) {
	for i, n := range nodes {
		if i > 0 {
			for range r.blankBefore(nodes, i, depth) {
				r.b.WriteByte('\n')
			}
		}
		r.node(n, depth)
	}
}

func (r *renderer) node(n *Node, depth int) {
	indent := strings.Repeat(r.unit, depth)
	switch {
	case n.Kind.IsDefinition():
		r.fragment(n.Decorators, indent)
		r.fragment(n.Header, indent)
		r.block(n.Body, depth+1)
		if !hasCode(n.Body) {
			r.line(indent + r.unit + "pass")
		}
	case n.Kind == KindDocstring && n.Header.IsEmpty():
		for _, line := range QuoteDoc(n.Doc, indent) {
			r.line(line)
		}
	case n.Kind == KindDocstring && r.style.Canonical:
		r.docstring(n.Header, indent)
	default:
		r.fragment(n.Header, indent)
	}
}

func (r *renderer) line(s string) {
	r.b.WriteString(s)
	r.b.WriteByte('\n')
}

func (r *renderer) fragment(f Fragment, indent string) {
	for i, line := range f.Lines {
		switch {
		case f.Fixed[i]:
			r.line(line)
		case line == "":
			r.line("")
		default:
			r.line(indent + line)
		}
	}
}

// docstring re-indents the continuation lines of a docstring to indent.
func (r *renderer) docstring(f Fragment, indent string) {
	r.line(indent + strings.TrimRight(f.Lines[0], " \t"))
	margin := -1
	for _, line := range f.Lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if w := len(leadingWhitespace(line)); margin < 0 || w < margin {
			margin = w
		}
	}
	for _, line := range f.Lines[1:] {
		if strings.TrimSpace(line) == "" {
			r.line("")
			continue
		}
		r.line(indent + strings.TrimRight(line[margin:], " \t"))
	}
}

func hasCode(body []*Node) bool {
	for _, n := range body {
		if n.Kind != KindComment {
			return true
		}
	}
	return false
}

func (r *renderer) blankBefore(nodes []*Node, i, depth int) int {
	n, prev := nodes[i], nodes[i-1]
	if !r.style.Canonical && !n.Span.IsZero() {
		return min(max(n.Blank, 0), max(r.style.MaxBlank, 0))
	}
	want := 1
	if depth == 0 {
		want = 2
	}
	switch {
	case attached(nodes, i-1):
		return 0
	case n.Kind.IsDefinition() || prev.Kind.IsDefinition() || attached(nodes, i):
		return want
	}
	return min(max(n.Blank, 0), want, max(r.style.MaxBlank, 0))
}

// attached reports whether nodes[j] is a comment written directly above a
// definition, possibly through further comments.
func attached(nodes []*Node, j int) bool {
	for ; j+1 < len(nodes); j++ {
		c, next := nodes[j], nodes[j+1]
		if c.Kind != KindComment || next.Blank != 0 {
			return false
		}
		if next.Kind.IsDefinition() {
			return true
		}
	}
	return false
}
