package syntax

import (
	"bytes"
	"strings"
)

// Fragment is source text split into lines with the owning node's column
// removed. Fixed lines begin inside a string literal and are written verbatim.
type Fragment struct {
	Lines []string
	Fixed []bool
}

// NewFragment builds a fragment from already-dedented text with no string
// continuation lines.
func NewFragment(text string) Fragment {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return Fragment{Lines: lines, Fixed: make([]bool, len(lines))}
}

// IsEmpty reports whether the fragment holds no text.
func (f Fragment) IsEmpty() bool {
	return len(f.Lines) == 0
}

// Text joins the fragment lines without indentation.
func (f Fragment) Text() string {
	return strings.Join(f.Lines, "\n")
}

// stringIndex records the byte ranges of string literals spanning lines.
type stringIndex [][2]int

// contains reports whether pos falls strictly inside a multi-line string.
func (s stringIndex) contains(pos int) bool {
	for _, r := range s {
		if r[0] < pos && pos < r[1] {
			return true
		}
	}
	return false
}

func fragmentOf(src []byte, strs stringIndex, start, end, column int, trim bool) Fragment {
	var frag Fragment
	if start >= end {
		return frag
	}
	lineStart := start
	for {
		lineEnd := end
		last := true
		if nl := bytes.IndexByte(src[lineStart:end], '\n'); nl >= 0 {
			lineEnd = lineStart + nl
			last = false
		}
		line := string(src[lineStart:lineEnd])
		fixed := len(frag.Lines) > 0 && strs.contains(lineStart)
		if len(frag.Lines) > 0 && !fixed {
			line = dedent(line, column)
		}
		if trim && !strs.contains(lineEnd) {
			line = strings.TrimRight(line, " \t")
		}
		frag.Lines = append(frag.Lines, line)
		frag.Fixed = append(frag.Fixed, fixed)
		if last {
			break
		}
		lineStart = lineEnd + 1
	}
	return frag
}

// dedent removes at most column leading blanks.
func dedent(line string, column int) string {
	i := 0
	for i < column && i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Dedent removes the indentation common to all non-blank lines of text.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ws := leadingWhitespace(line)
		if first {
			prefix = ws
			first = false
			continue
		}
		for !strings.HasPrefix(ws, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if prefix == "" {
		return text
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
