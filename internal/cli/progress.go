package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// progressReporter draws a single status line on an interactive terminal.
type progressReporter struct {
	out     io.Writer
	enabled bool
	label   string
	start   time.Time
	spinner int
	lastLen int
}

func newProgressReporter(out io.Writer, label string, quiet bool) *progressReporter {
	enabled := false
	if f, ok := out.(*os.File); ok && !quiet {
		stat, err := f.Stat()
		enabled = err == nil && (stat.Mode()&os.ModeCharDevice) != 0
	}
	return &progressReporter{
		out:     out,
		enabled: enabled,
		label:   label,
		start:   time.Now(),
	}
}

func (r *progressReporter) Update(file string, count int) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	file = strings.TrimSpace(file)
	if len(file) > 88 {
		file = "..." + file[len(file)-85:]
	}
	r.printStatus(fmt.Sprintf("%s %s %d %s", frame, r.label, count, file))
}

func (r *progressReporter) Done(count int) {
	if !r.enabled || count == 0 {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d files in %s)", r.label, count, elapsed))
	fmt.Fprintln(r.out)
}

func (r *progressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}
