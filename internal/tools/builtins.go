package tools

import (
	"context"
	"fmt"

	"github.com/skelly-dev/graft/internal/editor"
	"github.com/skelly-dev/graft/internal/scissors"
	"github.com/skelly-dev/graft/internal/workspace"
)

// RegisterBuiltins registers the file and address editing tools backed by svc.
func RegisterBuiltins(r *Registry, svc *workspace.Service) error {
	builtins := []*Tool{
		{
			Name:        "read_code_signatures_and_docstrings",
			Description: "Read the signatures and docstrings of the classes and functions in a file.",
			Params:      []string{"file_path"},
			Execute: func(_ context.Context, args []string) (string, error) {
				text, err := svc.Read(args[0])
				if err != nil {
					return "", err
				}
				return editor.Outline(text), nil
			},
		},
		{
			Name:        "read_code_at_address",
			Description: "Read the source of the declaration at a dotted address.",
			Params:      []string{"file_path", "address"},
			Execute: func(_ context.Context, args []string) (string, error) {
				text, err := svc.Read(args[0])
				if err != nil {
					return "", err
				}
				return editor.Extract(text, args[1]), nil
			},
		},
		addressTool(svc, "create_code_at_address", "Add new code at an address unless it already exists.", editor.OpCreate),
		addressTool(svc, "replace_code_at_address", "Replace the declaration at an address with new code.", editor.OpReplace),
		addressTool(svc, "add_code_before_address", "Add new code before the declaration at an address.", editor.OpInsertBefore),
		addressTool(svc, "add_code_after_address", "Add new code after the declaration at an address.", editor.OpInsertAfter),
		addressTool(svc, "replace_docstring_at_address", "Replace the docstring of the class or function at an address.", editor.OpSetDocstring),
		{
			Name:        "remove_code_at_address",
			Description: "Remove the declaration at an address.",
			Params:      []string{"file_path", "address"},
			Execute: func(_ context.Context, args []string) (string, error) {
				return written(svc.Apply(args[0], editor.Edit{Op: editor.OpRemove, Address: args[1]}))
			},
		},
		lineTool(svc, "insert_text_before_matching_line", "Insert text before the first line matching a marker.", scissors.InsertBefore),
		lineTool(svc, "insert_text_after_matching_line", "Insert text after the first line matching a marker.", scissors.InsertAfter),
		lineTool(svc, "replace_text_before_matching_line", "Replace everything before the first line matching a marker.", scissors.ReplaceBefore),
		lineTool(svc, "replace_text_after_matching_line", "Replace everything after the first line matching a marker.", scissors.ReplaceAfter),
		lineTool(svc, "insert_text_between_matching_lines", "Insert text after the first marker line, before the second.", scissors.InsertBetween),
		lineTool(svc, "replace_text_between_matching_lines", "Replace the text between two marker lines.", scissors.ReplaceBetween),
		{
			Name:        "find_and_replace",
			Description: "Apply SEARCH/REPLACE blocks to a file.",
			Params:      []string{"file_path", "command"},
			Execute: func(_ context.Context, args []string) (string, error) {
				return written(svc.FindReplace(args[0], args[1]))
			},
		},
		{
			Name:        "read_text_from_file",
			Description: "Read an entire file.",
			Params:      []string{"file_path"},
			Execute: func(_ context.Context, args []string) (string, error) {
				return svc.Read(args[0])
			},
		},
		{
			Name:        "write_text_to_file",
			Description: "Write text to a file, creating it if necessary.",
			Params:      []string{"file_path", "text"},
			Execute: func(_ context.Context, args []string) (string, error) {
				return written(svc.Write(args[0], args[1]))
			},
		},
	}

	for _, tool := range builtins {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

func addressTool(svc *workspace.Service, name, description string, op editor.Operation) *Tool {
	last := "new_code"
	if op == editor.OpSetDocstring {
		last = "new_docstring"
	}
	return &Tool{
		Name:        name,
		Description: description,
		Params:      []string{"file_path", "address", last},
		Execute: func(_ context.Context, args []string) (string, error) {
			return written(svc.Apply(args[0], editor.Edit{Op: op, Address: args[1], Code: args[2]}))
		},
	}
}

func lineTool(svc *workspace.Service, name, description string, mode scissors.Mode) *Tool {
	params := []string{"file_path", "line", "new_text"}
	if mode.Between() {
		params = []string{"file_path", "line1", "line2", "new_text"}
	}
	return &Tool{
		Name:        name,
		Description: description,
		Params:      params,
		Execute: func(_ context.Context, args []string) (string, error) {
			cut := scissors.Cut{Mode: mode, First: args[1], Text: args[len(args)-1]}
			if mode.Between() {
				cut.Second = args[2]
			}
			return written(svc.Splice(args[0], cut))
		},
	}
}

func written(change workspace.Change, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if !change.Written {
		return fmt.Sprintf("%s unchanged.", change.Path), nil
	}
	return fmt.Sprintf("%s successfully written.", change.Path), nil
}
