package syntax

import (
	"strings"
)

// literalValue strips the prefix and quotes from a string literal. Escape
// sequences are left as written.
func literalValue(lit string) string {
	lit = strings.TrimLeft(lit, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(lit) >= 2*len(q) && strings.HasPrefix(lit, q) && strings.HasSuffix(lit, q) {
			return lit[len(q) : len(lit)-len(q)]
		}
	}
	return lit
}

// isDocLiteral reports whether lit can serve as a docstring. Bytes and
// f-string literals cannot.
func isDocLiteral(lit string) bool {
	prefix := strings.ToLower(lit[:len(lit)-len(strings.TrimLeft(lit, "rRuUbBfF"))])
	return !strings.ContainsAny(prefix, "bf")
}

// CleanDoc normalizes docstring indentation: the first line is stripped of
// leading whitespace, the common indentation of the remaining lines is
// removed, and leading and trailing blank lines are dropped.
func CleanDoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "        "), "\n")
	margin := -1
	for _, line := range lines[1:] {
		stripped := strings.TrimLeft(line, " ")
		if stripped == "" {
			continue
		}
		if indent := len(line) - len(stripped); margin < 0 || indent < margin {
			margin = indent
		}
	}
	lines[0] = strings.TrimSpace(lines[0])
	for i := 1; i < len(lines); i++ {
		if margin > 0 && len(lines[i]) >= margin {
			lines[i] = lines[i][margin:]
		}
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

// QuoteDoc renders doc as a triple-quoted literal. Continuation lines are
// prefixed with indent and a multi-line docstring closes on its own line.
func QuoteDoc(doc, indent string) []string {
	doc = strings.ReplaceAll(doc, `\`, `\\`)
	doc = strings.ReplaceAll(doc, `"""`, `\"\"\"`)
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	if len(lines) == 1 {
		text := lines[0]
		if strings.HasSuffix(text, `"`) {
			text = text[:len(text)-1] + `\"`
		}
		return []string{indent + `"""` + text + `"""`}
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, indent+`"""`+lines[0])
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, indent+line)
	}
	return append(out, indent+`"""`)
}

// NewDocstring builds a synthesized docstring node holding doc.
func NewDocstring(doc string) *Node {
	return &Node{Kind: KindDocstring, Doc: doc}
}
