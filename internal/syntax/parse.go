package syntax

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ParseError reports source text that is not a valid Python program.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Parse parses src into a Program. A new tree-sitter parser is created for
// every call so programs are never shared.
func Parse(src []byte) (*Program, error) {
	return ParseContext(context.Background(), src)
}

// ParseContext is Parse with a caller-supplied context.
func ParseContext(ctx context.Context, src []byte) (*Program, error) {
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root)
	}

	b := &builder{src: src}
	b.collectStrings(root)

	prog := &Program{Source: src, strs: b.strs}
	prog.Body, _ = b.block(root, 0)
	prog.TabIndented = b.tabs
	prog.Indent = b.indent
	return prog, nil
}

// Valid reports whether src parses without errors.
func Valid(src []byte) bool {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return false
	}
	defer tree.Close()
	return !tree.RootNode().HasError()
}

func syntaxError(root *sitter.Node) *ParseError {
	bad := firstError(root)
	if bad == nil {
		return &ParseError{Line: 1, Column: 1, Msg: "invalid syntax"}
	}
	msg := "invalid syntax"
	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %q", bad.Type())
	}
	return &ParseError{
		Line:   int(bad.StartPoint().Row) + 1,
		Column: int(bad.StartPoint().Column) + 1,
		Msg:    msg,
	}
}

func firstError(node *sitter.Node) *sitter.Node {
	if node.IsMissing() || node.Type() == "ERROR" {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if bad := firstError(node.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

type builder struct {
	src    []byte
	strs   stringIndex
	tabs   bool
	indent string
}

func (b *builder) collectStrings(node *sitter.Node) {
	if node.Type() == "string" && node.StartPoint().Row != node.EndPoint().Row {
		b.strs = append(b.strs, [2]int{int(node.StartByte()), int(node.EndByte())})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		b.collectStrings(node.Child(i))
	}
}

// block converts the statements of a module or block node. Trailing comments
// indented less than the block belong to the enclosing block and are
// returned separately.
func (b *builder) block(parent *sitter.Node, depth int) ([]*Node, []*Node) {
	var nodes []*Node
	seenCode := false
	for i := 0; i < int(parent.NamedChildCount()); i++ {
		child := parent.NamedChild(i)

		if child.Type() == "comment" && len(nodes) > 0 {
			prev := nodes[len(nodes)-1]
			if !prev.Kind.IsDefinition() && int(child.StartPoint().Row)+1 == prev.Span.EndLine {
				b.extend(prev, child)
				continue
			}
		}

		if i == 0 && depth > 0 {
			b.noteIndent(child, depth)
		}

		switch child.Type() {
		case "comment":
			nodes = append(nodes, b.leaf(child, KindComment))
			continue
		case "function_definition", "class_definition", "decorated_definition":
			def, spill := b.definition(child, depth)
			if def != nil {
				nodes = append(nodes, def)
				nodes = append(nodes, spill...)
				seenCode = true
				continue
			}
		case "expression_statement":
			nodes = append(nodes, b.expression(child, !seenCode))
			seenCode = true
			continue
		}
		nodes = append(nodes, b.leaf(child, KindStatement))
		seenCode = true
	}

	var spill []*Node
	if depth > 0 {
		column := -1
		for _, n := range nodes {
			if n.Kind != KindComment {
				column = n.col
				break
			}
		}
		cut := len(nodes)
		for cut > 0 && nodes[cut-1].Kind == KindComment && nodes[cut-1].col < column {
			cut--
		}
		spill = nodes[cut:]
		nodes = nodes[:cut]
	}

	for i, n := range nodes {
		if i == 0 {
			n.Blank = 0
			continue
		}
		n.Blank = max(n.Span.StartLine-nodes[i-1].Span.EndLine-1, 0)
	}
	return nodes, spill
}

func (b *builder) noteIndent(child *sitter.Node, depth int) {
	start := int(child.StartByte())
	lineStart := start
	for lineStart > 0 && b.src[lineStart-1] != '\n' {
		lineStart--
	}
	ws := string(b.src[lineStart:start])
	if strings.TrimLeft(ws, " \t") != "" {
		return
	}
	if strings.Contains(ws, "\t") {
		b.tabs = true
	}
	if depth == 1 && b.indent == "" {
		b.indent = ws
	}
}

func spanOf(n *sitter.Node) Span {
	return Span{
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
	}
}

func (b *builder) leaf(n *sitter.Node, kind Kind) *Node {
	node := &Node{Kind: kind, Span: spanOf(n), col: int(n.StartPoint().Column)}
	node.Header = fragmentOf(b.src, b.strs, node.Span.StartByte, node.Span.EndByte, node.col, true)
	return node
}

// extend folds a same-line trailing comment into the statement before it.
func (b *builder) extend(prev *Node, comment *sitter.Node) {
	prev.Span.EndByte = int(comment.EndByte())
	prev.Header = fragmentOf(b.src, b.strs, prev.Span.StartByte, prev.Span.EndByte, prev.col, true)
}

func (b *builder) expression(n *sitter.Node, docCandidate bool) *Node {
	node := b.leaf(n, KindStatement)
	if n.NamedChildCount() != 1 {
		return node
	}
	expr := n.NamedChild(0)
	switch expr.Type() {
	case "string":
		if lit := expr.Content(b.src); docCandidate && isDocLiteral(lit) {
			node.Kind = KindDocstring
			node.Doc = literalValue(lit)
		}
	case "assignment":
		left := expr.ChildByFieldName("left")
		right := expr.ChildByFieldName("right")
		if left != nil && left.Type() == "identifier" && (right == nil || right.Type() != "assignment") {
			node.Kind = KindAssignment
			node.Name = left.Content(b.src)
		}
	}
	return node
}

func (b *builder) definition(n *sitter.Node, depth int) (*Node, []*Node) {
	def := n
	if n.Type() == "decorated_definition" {
		def = n.ChildByFieldName("definition")
		if def == nil {
			return nil, nil
		}
	}
	nameNode := def.ChildByFieldName("name")
	body := def.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return nil, nil
	}

	node := &Node{
		Name: nameNode.Content(b.src),
		Span: spanOf(n),
		col:  int(n.StartPoint().Column),
	}
	if def != n {
		end := b.trimEnd(int(def.StartByte()))
		node.Decorators = fragmentOf(b.src, b.strs, node.Span.StartByte, end, node.col, true)
	}
	node.Header = fragmentOf(b.src, b.strs, int(def.StartByte()), b.trimEnd(int(body.StartByte())), node.col, true)

	switch def.Type() {
	case "function_definition":
		node.Kind = KindFunction
		if def.ChildCount() > 0 && def.Child(0).Type() == "async" {
			node.Kind = KindAsyncFunction
		}
		node.Params = b.parameters(def.ChildByFieldName("parameters"))
	case "class_definition":
		node.Kind = KindClass
		if supers := def.ChildByFieldName("superclasses"); supers != nil {
			node.Superclass = collapse(supers.Content(b.src))
		}
	default:
		return nil, nil
	}

	var spill []*Node
	node.Body, spill = b.block(body, depth+1)
	owners := []*sitter.Node{def}
	if def != n {
		owners = append(owners, n)
	}
	for _, owner := range owners {
		for i := 0; i < int(owner.NamedChildCount()); i++ {
			c := owner.NamedChild(i)
			if c.Type() == "comment" && c.StartByte() >= body.EndByte() {
				spill = append(spill, b.leaf(c, KindComment))
			}
		}
	}
	sort.SliceStable(spill, func(i, j int) bool {
		return spill[i].Span.StartByte < spill[j].Span.StartByte
	})
	if len(node.Body) > 0 {
		last := node.Body[len(node.Body)-1]
		node.Span.EndLine = last.Span.EndLine
		node.Span.EndByte = last.Span.EndByte
	}
	return node, spill
}

func (b *builder) trimEnd(pos int) int {
	for pos > 0 {
		switch b.src[pos-1] {
		case ' ', '\t', '\r', '\n':
			pos--
			continue
		}
		break
	}
	return pos
}

func (b *builder) parameters(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	names := make([]string, 0, params.NamedChildCount())
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "comment":
			continue
		case "default_parameter", "typed_default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				names = append(names, name.Content(b.src))
			}
		case "typed_parameter":
			if p.NamedChildCount() > 0 {
				names = append(names, p.NamedChild(0).Content(b.src))
			}
		default:
			names = append(names, p.Content(b.src))
		}
	}
	return names
}

// collapse flattens a possibly multi-line argument list onto one line.
func collapse(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "( ", "(")
	s = strings.ReplaceAll(s, ", )", ")")
	s = strings.ReplaceAll(s, ",)", ")")
	return strings.ReplaceAll(s, " )", ")")
}
