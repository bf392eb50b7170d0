package syntax

import "strings"

// Kind tags the variant a Node holds.
type Kind int

const (
	KindStatement Kind = iota
	KindComment
	KindDocstring
	KindAssignment
	KindFunction
	KindAsyncFunction
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindStatement:
		return "statement"
	case KindComment:
		return "comment"
	case KindDocstring:
		return "docstring"
	case KindAssignment:
		return "assignment"
	case KindFunction:
		return "function"
	case KindAsyncFunction:
		return "async function"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// IsDeclaration reports whether nodes of this kind can be addressed by name.
func (k Kind) IsDeclaration() bool {
	return k == KindAssignment || k.IsDefinition()
}

// IsDefinition reports whether nodes of this kind own a body.
func (k Kind) IsDefinition() bool {
	return k == KindFunction || k == KindAsyncFunction || k == KindClass
}

// Span locates a node in the text it was parsed from. Lines are 1-based and
// inclusive; bytes are half-open. Definition spans start at the first decorator.
type Span struct {
	StartLine int
	EndLine   int
	StartByte int
	EndByte   int
}

// IsZero reports whether the span is unset, which marks a synthesized node.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Node is one entry of a block: a declaration with a body, an addressable
// assignment, a docstring, a comment, or an opaque statement.
type Node struct {
	Kind Kind
	Name string

	// Decorators holds decorator lines and the comments between them.
	Decorators Fragment

	// Header is "def f(x):" / "class A(B):" for definitions and the full
	// statement text for every other kind.
	Header Fragment

	Params     []string // function parameter names, stars included
	Superclass string   // class argument list text, parentheses included

	Body []*Node

	// Doc is the docstring value for KindDocstring nodes. A docstring with an
	// empty Header is rendered from Doc.
	Doc string

	Span  Span
	Blank int // blank lines between this node and the previous sibling

	col int
}

// Program is the parsed form of one source file.
type Program struct {
	Source []byte
	Body   []*Node

	// TabIndented records that some block was indented with tabs.
	TabIndented bool

	// Indent is the indentation unit of the first nested block, if any.
	Indent string

	strs stringIndex
}

// Docstring returns the node's leading docstring node, if any.
func (n *Node) Docstring() (*Node, int) {
	return leadingDocstring(n.Body)
}

// Docstring returns the module docstring node, if any.
func (p *Program) Docstring() (*Node, int) {
	return leadingDocstring(p.Body)
}

func leadingDocstring(body []*Node) (*Node, int) {
	for i, n := range body {
		switch n.Kind {
		case KindComment:
			continue
		case KindDocstring:
			return n, i
		}
		return nil, -1
	}
	return nil, -1
}

// Signature renders the outline form of a definition, e.g. "def f(a, b)".
func (n *Node) Signature() string {
	switch n.Kind {
	case KindFunction:
		return "def " + n.Name + "(" + strings.Join(n.Params, ", ") + ")"
	case KindAsyncFunction:
		return "async def " + n.Name + "(" + strings.Join(n.Params, ", ") + ")"
	case KindClass:
		return "class " + n.Name + n.Superclass
	case KindAssignment:
		return n.Name
	default:
		return ""
	}
}

// Text returns the verbatim source of n, decorators included, with the
// node's own indentation removed from every line outside string literals.
func (p *Program) Text(n *Node) string {
	span := n.Span
	if span.IsZero() || span.EndByte > len(p.Source) || span.StartByte > span.EndByte {
		return ""
	}
	start := span.StartByte
	for start > 0 && p.Source[start-1] != '\n' {
		start--
	}
	frag := fragmentOf(p.Source, p.strs, start, span.EndByte, n.col, false)
	if len(frag.Lines) > 0 {
		frag.Lines[0] = dedent(frag.Lines[0], n.col)
	}
	return frag.Text() + "\n"
}
