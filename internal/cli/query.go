package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skelly-dev/graft/internal/editor"
	"github.com/skelly-dev/graft/internal/fileutil"
	"github.com/skelly-dev/graft/internal/search"
	"github.com/skelly-dev/graft/internal/syntax"
	"github.com/skelly-dev/graft/internal/workspace"
)

func (a *app) newOutlineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline <file|dir>...",
		Short: "Print the signatures and docstrings of Python files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runOutline,
	}
	cmd.Flags().String(formatFlagName, string(FormatText), "Output format: text|json|jsonl|yaml")
	cmd.Flags().Int(parallelFlag, defaultOutlineParallel, "number of files outlined concurrently")
	a.bind(cmd.Flags().Lookup(parallelFlag), outlineParallel)
	return cmd
}

// outlineRecord is one declaration in jsonl output.
type outlineRecord struct {
	File string `json:"file"`
	editor.Entry
}

func (a *app) runOutline(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(cmd)
	if err != nil {
		return err
	}
	progress := newProgressReporter(cmd.ErrOrStderr(), "outline", format != FormatText)
	svc := a.workspace(false, workspace.WithProgress(progress.Update))

	result := &workspace.OutlineResult{Files: make([]workspace.FileOutline, 0)}
	single := len(args) == 1
	for _, target := range args {
		info, err := os.Stat(target)
		if err != nil {
			return err
		}
		if info.IsDir() {
			single = false
			dirResult, err := svc.OutlineDir(cmd.Context(), target)
			if err != nil {
				return err
			}
			result.Files = append(result.Files, dirResult.Files...)
			result.Issues = append(result.Issues, dirResult.Issues...)
			continue
		}

		outline, err := svc.OutlineFile(cmd.Context(), target)
		if err != nil {
			var perr *syntax.ParseError
			if !errors.As(err, &perr) {
				return err
			}
			result.Issues = append(result.Issues, workspace.Issue{File: target, Severity: "error", Message: perr.Error()})
			continue
		}
		result.Files = append(result.Files, outline)
	}
	progress.Done(len(result.Files))
	if len(args) == 1 {
		result.Root = args[0]
	}

	out := cmd.OutOrStdout()
	switch format {
	case FormatJSON:
		return fileutil.PrintJSON(out, result)
	case FormatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case FormatJSONL:
		records := make([]outlineRecord, 0)
		for _, file := range result.Files {
			for _, entry := range file.Entries {
				records = append(records, outlineRecord{File: file.Path, Entry: entry})
			}
		}
		return fileutil.WriteJSONL(out, records)
	}

	if single {
		if len(result.Issues) > 0 {
			_, err := fmt.Fprintf(out, "Unable to outline code: %s\n", result.Issues[0].Message)
			return err
		}
		_, err := fmt.Fprintln(out, result.Files[0].Text)
		return err
	}
	for _, file := range result.Files {
		fmt.Fprintf(out, "# %s\n%s\n\n", file.Path, file.Text)
	}
	if len(result.Issues) == 0 {
		return nil
	}
	skipped := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", issue.Severity, issue.File, issue.Message)
		skipped = append(skipped, issue.File)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d file(s): %s\n", len(skipped), SummarizePaths(skipped, 5))
	return nil
}

func (a *app) newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file> <address>",
		Short: "Print the source of the declaration at an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			text, err := editor.Lookup(string(data), args[1])
			if errors.Is(err, editor.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), editor.NotFoundMessage(args[1]))
				return withSuggestions(args[0], args[1], err)
			}
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func (a *app) newSymbolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "List the addressable declarations of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outline, err := a.workspace(false).OutlineFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if boolFlag(cmd, jsonFlagName) {
				return fileutil.PrintJSON(cmd.OutOrStdout(), outline.Entries)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), renderSymbolTable(outline.Entries))
			return err
		},
	}
	cmd.Flags().Bool(jsonFlagName, false, "Print machine-readable symbols")
	return cmd
}

func renderSymbolTable(entries []editor.Entry) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Address", "Kind", "Line", "Signature"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, entry := range entries {
		table.Append([]string{entry.Address, entry.Kind, strconv.Itoa(entry.Line), entry.Signature})
	}
	table.SetFooter([]string{fmt.Sprintf("Total %d", len(entries)), "", "", ""})
	table.Render()

	return tableBuffer.String()
}

func (a *app) newFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <file> <query>",
		Short: "Search the declarations of a file by name, signature and docstring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt(limitFlagName)
			if err != nil {
				return fmt.Errorf("failed to read --%s flag: %w", limitFlagName, err)
			}
			outline, err := a.workspace(false).OutlineFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			index := search.Build(args[0], outline.Entries)
			results := search.Search(index, args[1], limit)

			matches := make([]search.Document, 0, len(results))
			for _, result := range results {
				if doc, ok := index.Lookup(result.ID); ok {
					matches = append(matches, doc)
				}
			}
			if boolFlag(cmd, jsonFlagName) {
				return fileutil.PrintJSON(cmd.OutOrStdout(), matches)
			}
			if len(matches) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "no declarations match %q\n", args[1])
				return err
			}
			for _, doc := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d %s  %s\n", doc.File, doc.Line, doc.ID, doc.Signature)
			}
			return nil
		},
	}
	cmd.Flags().Int(limitFlagName, 10, "Maximum number of matches to return")
	cmd.Flags().Bool(jsonFlagName, false, "Print machine-readable matches")
	return cmd
}
