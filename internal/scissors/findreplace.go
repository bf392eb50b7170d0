package scissors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMalformedBlock     = errors.New("missing SEARCH/REPLACE block")
	ErrSearchTextNotFound = errors.New("search text not found")
)

var blockPattern = regexp.MustCompile(`(?s)<<<<<<< SEARCH\n(.*?)=======\n(.*?)>>>>>>> REPLACE`)

// FindReplace applies every SEARCH/REPLACE block in command to source, in
// order. Search and replacement text are trimmed and every occurrence of the
// search text is replaced.
//
//	<<<<<<< SEARCH
//	print("Hello")
//	=======
//	print("Goodbye")
//	>>>>>>> REPLACE
func FindReplace(source, command string) (string, error) {
	blocks := blockPattern.FindAllStringSubmatch(command, -1)
	if len(blocks) == 0 {
		return "", ErrMalformedBlock
	}
	for _, block := range blocks {
		search := strings.TrimSpace(block[1])
		replace := strings.TrimSpace(block[2])
		if search == "" {
			return "", fmt.Errorf("%w: empty search text", ErrMalformedBlock)
		}
		if !strings.Contains(source, search) {
			return "", fmt.Errorf("%w: %q", ErrSearchTextNotFound, firstLine(search))
		}
		source = strings.ReplaceAll(source, search, replace)
	}
	return source, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "..."
	}
	return s
}
