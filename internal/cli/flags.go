package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	codeFlagName     = "code"
	codeFileFlagName = "code-file"
	diffFlagName     = "diff"
	jsonFlagName     = "json"
	formatFlagName   = "format"
	limitFlagName    = "limit"
)

// OutputFormat selects how outline results are printed.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatJSONL OutputFormat = "jsonl"
	FormatYAML  OutputFormat = "yaml"
)

func ParseOutputFormat(cmd *cobra.Command) (OutputFormat, error) {
	value, err := cmd.Flags().GetString(formatFlagName)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", formatFlagName, err)
	}
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case FormatText, FormatJSON, FormatJSONL, FormatYAML:
		return format, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported format %q (supported: text, json, jsonl, yaml)", value)
}

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func boolFlag(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	value, _ := cmd.Flags().GetBool(name)
	return value
}

func addCodeFlags(cmd *cobra.Command, what string) {
	cmd.Flags().String(codeFlagName, "", what+" (default: read from stdin)")
	cmd.Flags().String(codeFileFlagName, "", "read "+what+" from a file")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(diffFlagName, false, "print a unified diff instead of writing the file")
	cmd.Flags().Bool(jsonFlagName, false, "print a machine-readable summary")
}

// readCode returns the text given by --code, --code-file or stdin, in that
// order of preference.
func readCode(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed(codeFlagName) {
		return OptionalStringFlag(cmd, codeFlagName)
	}
	path, err := OptionalStringFlag(cmd, codeFileFlagName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read --%s: %w", codeFileFlagName, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
