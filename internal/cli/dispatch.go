package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/skelly-dev/graft/internal/tools"
)

func (a *app) registry() (*tools.Registry, error) {
	reg := tools.NewRegistry(a.logger)
	if err := tools.RegisterBuiltins(reg, a.workspace(false)); err != nil {
		return nil, err
	}
	return reg, nil
}

func (a *app) newDispatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Run the command named in an agent message read from stdin",
		Long: `Read a free-form message from stdin, run the tool named on its
"Command: <tool> <args>" line and print the reply. The first fenced code
block in the message supplies the tool's last argument. A message without a
command, or with "done", "none" or "finished", prints "End.".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			reply := reg.Dispatch(cmd.Context(), string(content))
			a.logger.Info("dispatch", "reply_bytes", len(reply))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return err
		},
	}
}

func (a *app) newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the commands available to dispatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}

			var tableBuffer bytes.Buffer
			table := tablewriter.NewWriter(&tableBuffer)
			table.SetHeader([]string{"Usage", "Description"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetAutoWrapText(false)
			for _, name := range reg.Names() {
				tool := reg.Get(name)
				table.Append([]string{tool.Usage(), tool.Description})
			}
			table.Render()

			_, err = io.Copy(cmd.OutOrStdout(), &tableBuffer)
			return err
		},
	}
}
