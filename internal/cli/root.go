package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skelly-dev/graft/internal/canon"
	"github.com/skelly-dev/graft/internal/editor"
	"github.com/skelly-dev/graft/internal/workspace"
)

// app carries the state shared by all commands of one root.
type app struct {
	version    string
	config     *viper.Viper
	configPath string
	logger     *slog.Logger
	logCloser  io.Closer
}

func NewRootCommand(version string) *cobra.Command {
	a := &app{
		version: version,
		config:  newConfig(),
		logger:  slog.New(slog.DiscardHandler),
	}

	rootCmd := &cobra.Command{
		Use:   "graft",
		Short: "Edit Python source by declaration address",
		Long: `Graft reads and rewrites Python source files by dotted declaration
addresses such as "Client.connect" or "Outer.Inner.method".

Edits replace, insert, remove or create whole declarations and leave the
result in a canonical layout. Read-only commands print outlines, the source
of one declaration, or a symbol table.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, configFlagName, "", "config file (default ./"+configFileName+")")
	flags.BoolP(verboseFlagName, "v", false, "log at debug level")
	a.bind(flags.Lookup(verboseFlagName), logVerboseKey)
	flags.String(logFileFlagName, defaultLogFilename, "log file path")
	a.bind(flags.Lookup(logFileFlagName), logFilenameKey)
	flags.Int(indentFlagName, defaultIndent, "spaces per indentation level in canonical output")
	a.bind(flags.Lookup(indentFlagName), formatIndentKey)
	flags.Bool(backupFlagName, defaultBackup, "keep the previous content of edited files in .bak files")
	a.bind(flags.Lookup(backupFlagName), editBackupKey)

	rootCmd.AddCommand(
		a.newEditCommand(editor.OpCreate, "create <file> <address>", "Add code at an address unless a declaration already exists there"),
		a.newEditCommand(editor.OpReplace, "replace <file> <address>", "Replace the declaration at an address"),
		a.newEditCommand(editor.OpInsertBefore, "insert-before <file> <address>", "Insert code before the declaration at an address"),
		a.newEditCommand(editor.OpInsertAfter, "insert-after <file> <address>", "Insert code after the declaration at an address"),
		a.newRemoveCommand(),
		a.newDocstringCommand(),
		a.newOutlineCommand(),
		a.newExtractCommand(),
		a.newSymbolsCommand(),
		a.newFindCommand(),
		a.newCutCommand(),
		a.newFindReplaceCommand(),
		a.newDispatchCommand(),
		a.newToolsCommand(),
		newVersionCommand(version),
	)

	return rootCmd
}

// bind wires a flag to a config key so config and env values feed the flag.
func (a *app) bind(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(a.config.BindPFlag(key, flag))
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := loadConfig(a.config, a.configPath); err != nil {
		return err
	}
	a.logger, a.logCloser = configureLogger(a.config)
	a.logger.Debug("command started", "command", cmd.CommandPath(), "args", args)
	return nil
}

func (a *app) teardown() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

func (a *app) editor() *editor.Editor {
	format := canon.New(a.config.GetInt(formatIndentKey), a.config.GetInt(formatMaxBlankKey))
	return editor.New(editor.WithFormatter(format), editor.WithLogger(a.logger))
}

func (a *app) workspace(dryRun bool, extra ...workspace.Option) *workspace.Service {
	opts := []workspace.Option{
		workspace.WithEditor(a.editor()),
		workspace.WithLogger(a.logger),
		workspace.WithBackup(a.config.GetBool(editBackupKey)),
		workspace.WithDryRun(dryRun),
		workspace.WithParallel(a.config.GetInt(outlineParallel)),
	}
	return workspace.New(append(opts, extra...)...)
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "graft %s\n", version)
		},
	}
}
