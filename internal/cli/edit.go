package cli

import (
	"github.com/spf13/cobra"

	"github.com/skelly-dev/graft/internal/editor"
)

func (a *app) newEditCommand(op editor.Operation, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(cmd)
			if err != nil {
				return err
			}
			return a.runEdit(cmd, args[0], editor.Edit{Op: op, Address: args[1], Code: code})
		},
	}
	addCodeFlags(cmd, "new code")
	addOutputFlags(cmd)
	return cmd
}

func (a *app) newRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <file> <address>",
		Short: "Remove the declaration at an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(cmd, args[0], editor.Edit{Op: editor.OpRemove, Address: args[1]})
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func (a *app) newDocstringCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docstring <file> <address> [text]",
		Short: "Replace or insert the docstring of a class or function",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc string
			if len(args) == 3 {
				doc = args[2]
			} else {
				var err error
				if doc, err = readCode(cmd); err != nil {
					return err
				}
			}
			return a.runEdit(cmd, args[0], editor.Edit{Op: editor.OpSetDocstring, Address: args[1], Code: doc})
		},
	}
	addCodeFlags(cmd, "docstring text")
	addOutputFlags(cmd)
	return cmd
}

func (a *app) runEdit(cmd *cobra.Command, path string, edit editor.Edit) error {
	showDiff := boolFlag(cmd, diffFlagName)
	change, err := a.workspace(showDiff).Apply(path, edit)
	if err != nil {
		return withSuggestions(path, edit.Address, err)
	}
	summary := newChangeSummary(string(edit.Op), edit.Address, change, showDiff)
	return PrintChangeSummary(cmd.OutOrStdout(), summary, boolFlag(cmd, jsonFlagName))
}
