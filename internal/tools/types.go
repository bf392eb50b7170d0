// Package tools exposes the editing operations as named commands that an
// agent can invoke through plain-text messages.
package tools

import (
	"context"
	"strings"
)

// ExecuteFunc runs a tool with positional arguments.
type ExecuteFunc func(ctx context.Context, args []string) (string, error)

// Tool is a named command.
type Tool struct {
	// Name is the unique identifier used in "Command:" lines.
	Name string

	// Description explains what the tool does.
	Description string

	// Params names the positional arguments. A fenced block in the message
	// supplies the last one.
	Params []string

	Execute ExecuteFunc
}

// Validate checks that the tool can be registered.
func (t *Tool) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// Usage renders the call form of the tool, e.g. "read_code_at_address <file_path> <address>".
func (t *Tool) Usage() string {
	var b strings.Builder
	b.WriteString(t.Name)
	for _, p := range t.Params {
		b.WriteString(" <")
		b.WriteString(p)
		b.WriteString(">")
	}
	return b.String()
}
