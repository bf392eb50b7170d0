package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skelly-dev/graft/internal/address"
	"github.com/skelly-dev/graft/internal/syntax"
)

// Entry is one declaration in an outline.
type Entry struct {
	Address   string `json:"address" yaml:"address"`
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
	Depth     int    `json:"depth" yaml:"depth"`
	Line      int    `json:"line" yaml:"line"`
	Signature string `json:"signature" yaml:"signature"`
	Docstring string `json:"docstring,omitempty" yaml:"docstring,omitempty"`
}

// Entries lists every addressable declaration of prog in resolution order.
func Entries(prog *syntax.Program) []Entry {
	var entries []Entry
	address.Walk(prog, func(m address.Match) bool {
		entry := Entry{
			Address:   m.Path.String(),
			Name:      m.Node.Name,
			Kind:      m.Node.Kind.String(),
			Depth:     len(m.Path) - 1,
			Line:      m.Node.Span.StartLine,
			Signature: m.Node.Signature(),
		}
		if doc, _ := m.Node.Docstring(); doc != nil && m.Node.Kind.IsDefinition() {
			entry.Docstring = syntax.CleanDoc(doc.Doc)
		}
		entries = append(entries, entry)
		return true
	})
	return entries
}

// ModuleDoc returns the cleaned module docstring, if any.
func ModuleDoc(prog *syntax.Program) string {
	if doc, _ := prog.Docstring(); doc != nil {
		return syntax.CleanDoc(doc.Doc)
	}
	return ""
}

// Outline renders the signatures and docstrings of src. Unparseable input
// yields a descriptive message instead of an error.
func Outline(src string) string {
	prog, err := syntax.Parse([]byte(src))
	if err != nil {
		return fmt.Sprintf("Unable to outline code: %v", err)
	}
	return OutlineProgram(prog)
}

// OutlineProgram renders the outline of a parsed program. The result is
// itself valid Python: each definition is followed by its docstring, or by
// pass when it has neither a docstring nor outlined members.
func OutlineProgram(prog *syntax.Program) string {
	var lines []string
	if doc := ModuleDoc(prog); doc != "" {
		lines = append(lines, quoted(doc, "")...)
		lines = append(lines, "")
	}

	entries := Entries(prog)
	for i, entry := range entries {
		if entry.Kind == syntax.KindAssignment.String() {
			continue
		}
		indent := strings.Repeat("    ", entry.Depth)
		lines = append(lines, indent+entry.Signature+":")
		switch {
		case entry.Docstring != "":
			lines = append(lines, quoted(entry.Docstring, indent+"    ")...)
		case !hasOutlinedMember(entries, i):
			lines = append(lines, indent+"    pass")
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func hasOutlinedMember(entries []Entry, i int) bool {
	for _, next := range entries[i+1:] {
		if next.Depth <= entries[i].Depth {
			return false
		}
		if next.Depth == entries[i].Depth+1 && next.Kind != syntax.KindAssignment.String() {
			return true
		}
	}
	return false
}

// quoted wraps a cleaned docstring in triple quotes. Escapes already present
// in doc are kept; only quotes that would end the literal early are escaped.
func quoted(doc, indent string) []string {
	doc = strings.ReplaceAll(doc, `"""`, `\"\"\"`)
	if strings.HasSuffix(doc, `"`) && !escaped(doc, len(doc)-1) {
		doc = doc[:len(doc)-1] + `\"`
	}
	lines := strings.Split(`"""`+doc+`"""`, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return lines
}

// escaped reports whether s[i] is preceded by an odd number of backslashes.
func escaped(s string, i int) bool {
	n := 0
	for i > 0 && s[i-1] == '\\' {
		n++
		i--
	}
	return n%2 == 1
}

// NotFoundMessage is the text read-only queries return for a missing address.
func NotFoundMessage(addr string) string {
	return fmt.Sprintf("No code found at address '%s'.", addr)
}

// Lookup returns the verbatim source of the declaration at addr, decorators
// included, with its own indentation removed.
func Lookup(src, addr string) (string, error) {
	path, err := address.Parse(addr)
	if err != nil {
		return "", err
	}
	prog, err := syntax.Parse([]byte(src))
	if err != nil {
		return "", err
	}
	m, ok := address.Resolve(prog, path)
	if !ok {
		return "", notFound(addr)
	}
	return prog.Text(m.Node), nil
}

// Extract is Lookup for inspection: failures are reported as text.
func Extract(src, addr string) string {
	text, err := Lookup(src, addr)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			return fmt.Sprintf("Unable to read code: %v", perr)
		}
		return NotFoundMessage(addr)
	}
	return text
}
