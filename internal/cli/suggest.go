package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/skelly-dev/graft/internal/editor"
	"github.com/skelly-dev/graft/internal/search"
	"github.com/skelly-dev/graft/internal/syntax"
)

const maxSuggestions = 3

// withSuggestions extends a NotFound error with the addresses in path that
// resemble addr. Other errors are returned unchanged.
func withSuggestions(path, addr string, err error) error {
	if !errors.Is(err, editor.ErrNotFound) {
		return err
	}
	suggestions := suggestAddresses(path, addr)
	if len(suggestions) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
}

func suggestAddresses(path, addr string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	prog, err := syntax.Parse(data)
	if err != nil {
		return nil
	}
	return search.Suggest(search.Build(path, editor.Entries(prog)), addr, maxSuggestions)
}
