package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/skelly-dev/graft/internal/fileutil"
	"github.com/skelly-dev/graft/internal/workspace"
)

type ChangeSummary struct {
	Mode      string `json:"mode"`
	Path      string `json:"path"`
	Address   string `json:"address,omitempty"`
	Found     bool   `json:"found"`
	Changed   bool   `json:"changed"`
	Written   bool   `json:"written"`
	Formatted bool   `json:"formatted"`
	Diff      string `json:"diff,omitempty"`
}

func newChangeSummary(mode, address string, change workspace.Change, withDiff bool) ChangeSummary {
	summary := ChangeSummary{
		Mode:      mode,
		Path:      change.Path,
		Address:   address,
		Found:     change.Found,
		Changed:   change.Changed(),
		Written:   change.Written,
		Formatted: change.Formatted,
	}
	if withDiff {
		summary.Diff = unifiedDiff(change.Path, change.Before, change.After)
	}
	return summary
}

func PrintChangeSummary(w io.Writer, summary ChangeSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(w, summary)
	}
	if summary.Diff != "" {
		_, err := io.WriteString(w, summary.Diff)
		return err
	}

	parts := []string{fmt.Sprintf("%s:", summary.Mode), summary.Path}
	if summary.Address != "" {
		parts = append(parts, fmt.Sprintf("address=%s", summary.Address))
	}
	parts = append(parts, fmt.Sprintf("found=%t", summary.Found))
	switch {
	case summary.Written:
		parts = append(parts, "written")
	case summary.Changed:
		parts = append(parts, "not written")
	default:
		parts = append(parts, "unchanged")
	}
	if summary.Changed && !summary.Formatted && summary.Address != "" {
		parts = append(parts, "(unformatted)")
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

// unifiedDiff renders the change from before to after with three lines of
// context. Identical inputs yield an empty string.
func unifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
