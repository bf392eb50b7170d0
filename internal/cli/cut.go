package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skelly-dev/graft/internal/scissors"
)

func (a *app) newCutCommand() *cobra.Command {
	modes := make([]string, 0, len(scissors.Modes))
	for _, mode := range scissors.Modes {
		modes = append(modes, string(mode))
	}

	cmd := &cobra.Command{
		Use:   "cut <mode> <file> <line> [line2]",
		Short: "Splice text relative to matching lines of any text file",
		Long: `Splice text relative to the first line equal to <line> after trimming
surrounding whitespace. Between modes take a second marker, searched after
the first one.

Modes: ` + strings.Join(modes, ", "),
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := scissors.ParseMode(args[0])
			if err != nil {
				return err
			}
			cut := scissors.Cut{Mode: mode, First: args[2]}
			switch {
			case mode.Between() && len(args) != 4:
				return fmt.Errorf("%s needs two marker lines", mode)
			case !mode.Between() && len(args) != 3:
				return fmt.Errorf("%s takes one marker line", mode)
			case mode.Between():
				cut.Second = args[3]
			}
			if cut.Text, err = readCode(cmd); err != nil {
				return err
			}

			showDiff := boolFlag(cmd, diffFlagName)
			change, err := a.workspace(showDiff).Splice(args[1], cut)
			if err != nil {
				return err
			}
			summary := newChangeSummary(string(mode), "", change, showDiff)
			return PrintChangeSummary(cmd.OutOrStdout(), summary, boolFlag(cmd, jsonFlagName))
		},
	}
	addCodeFlags(cmd, "new text")
	addOutputFlags(cmd)
	return cmd
}

func (a *app) newFindReplaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-replace <file>",
		Short: "Apply SEARCH/REPLACE blocks to a file",
		Long: `Apply one or more blocks of the form

<<<<<<< SEARCH
old text
=======
new text
>>>>>>> REPLACE

in order. Every search text must occur in the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := readCode(cmd)
			if err != nil {
				return err
			}
			showDiff := boolFlag(cmd, diffFlagName)
			change, err := a.workspace(showDiff).FindReplace(args[0], command)
			if err != nil {
				return err
			}
			summary := newChangeSummary("find_replace", "", change, showDiff)
			return PrintChangeSummary(cmd.OutOrStdout(), summary, boolFlag(cmd, jsonFlagName))
		},
	}
	addCodeFlags(cmd, "SEARCH/REPLACE blocks")
	addOutputFlags(cmd)
	return cmd
}
