// Package scissors splices text relative to marker lines. A marker matches a
// line when both are equal after trimming surrounding whitespace; the first
// matching line is used.
package scissors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCuttingPointNotFound = errors.New("cutting point not found")
	ErrUnknownMode          = errors.New("unknown cut mode")
)

// Mode selects where new text goes relative to the cutting points.
type Mode string

const (
	InsertBefore   Mode = "insert_before"
	InsertAfter    Mode = "insert_after"
	ReplaceBefore  Mode = "replace_before"
	ReplaceAfter   Mode = "replace_after"
	InsertBetween  Mode = "insert_between"
	ReplaceBetween Mode = "replace_between"
)

// Modes lists every mode in a stable order.
var Modes = []Mode{InsertBefore, InsertAfter, ReplaceBefore, ReplaceAfter, InsertBetween, ReplaceBetween}

// ParseMode accepts both the underscore and dash spellings.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Between reports whether the mode takes two cutting points.
func (m Mode) Between() bool {
	return m == InsertBetween || m == ReplaceBetween
}

// Cut is one splice request. Second is only used by the between modes.
type Cut struct {
	Mode   Mode
	First  string
	Second string
	Text   string
}

// Apply performs c against text.
func Apply(text string, c Cut) (string, error) {
	switch c.Mode {
	case InsertBefore:
		return InsertBeforeLine(text, c.First, c.Text)
	case InsertAfter:
		return InsertAfterLine(text, c.First, c.Text)
	case ReplaceBefore:
		return ReplaceBeforeLine(text, c.First, c.Text)
	case ReplaceAfter:
		return ReplaceAfterLine(text, c.First, c.Text)
	case InsertBetween:
		return InsertBetweenLines(text, c.First, c.Second, c.Text)
	case ReplaceBetween:
		return ReplaceBetweenLines(text, c.First, c.Second, c.Text)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
}

// splitLines splits text keeping line terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.SplitAfter(strings.TrimSuffix(text, "\n"), "\n")
}

func joinLines(text string, lines []string) string {
	out := strings.Join(lines, "")
	if strings.HasSuffix(text, "\n") && out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func find(lines []string, marker string, from int) int {
	marker = strings.TrimSpace(marker)
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == marker {
			return i
		}
	}
	return -1
}

func notFound(marker string) error {
	return fmt.Errorf("%w: %q", ErrCuttingPointNotFound, marker)
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// terminate ends lines[i] with a newline.
func terminate(lines []string, i int) {
	lines[i] = withNewline(lines[i])
}

// InsertBeforeLine inserts code before the first line matching marker. Empty
// text yields code.
func InsertBeforeLine(text, marker, code string) (string, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return code + text, nil
	}
	i := find(lines, marker, 0)
	if i < 0 {
		return "", notFound(marker)
	}
	out := append(append(append([]string{}, lines[:i]...), withNewline(code)), lines[i:]...)
	return joinLines(text, out), nil
}

// InsertAfterLine inserts code after the first line matching marker.
func InsertAfterLine(text, marker, code string) (string, error) {
	lines := splitLines(text)
	i := find(lines, marker, 0)
	if i < 0 {
		return "", notFound(marker)
	}
	if i == len(lines)-1 {
		return strings.TrimRight(text, "\n") + "\n" + code, nil
	}
	out := append(append(append([]string{}, lines[:i+1]...), withNewline(code)), lines[i+1:]...)
	return joinLines(text, out), nil
}

// ReplaceBeforeLine replaces everything above the first line matching marker.
func ReplaceBeforeLine(text, marker, code string) (string, error) {
	lines := splitLines(text)
	i := find(lines, marker, 0)
	if i < 0 {
		return "", notFound(marker)
	}
	return withNewline(code) + joinLines(text, lines[i:]), nil
}

// ReplaceAfterLine replaces everything below the first line matching marker.
func ReplaceAfterLine(text, marker, code string) (string, error) {
	lines := splitLines(text)
	i := find(lines, marker, 0)
	if i < 0 {
		return "", notFound(marker)
	}
	head := append([]string{}, lines[:i+1]...)
	terminate(head, i)
	return strings.Join(head, "") + strings.TrimPrefix(code, "\n"), nil
}

func between(lines []string, first, second string) (int, int, error) {
	start := find(lines, first, 0)
	if start < 0 {
		return 0, 0, notFound(first)
	}
	end := find(lines, second, start+1)
	if end < 0 {
		return 0, 0, notFound(second)
	}
	return start, end, nil
}

// InsertBetweenLines inserts code right after the line matching first,
// provided a line matching second follows it. Lines in between are kept.
func InsertBetweenLines(text, first, second, code string) (string, error) {
	lines := splitLines(text)
	start, _, err := between(lines, first, second)
	if err != nil {
		return "", err
	}
	out := append(append(append([]string{}, lines[:start+1]...), withNewline(code)), lines[start+1:]...)
	return joinLines(text, out), nil
}

// ReplaceBetweenLines replaces the lines strictly between the line matching
// first and the next line matching second.
func ReplaceBetweenLines(text, first, second, code string) (string, error) {
	lines := splitLines(text)
	start, end, err := between(lines, first, second)
	if err != nil {
		return "", err
	}
	out := append(append(append([]string{}, lines[:start+1]...), withNewline(code)), lines[end:]...)
	return joinLines(text, out), nil
}
