package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	ew.printf("%s\n", bold.Sprintf("datecommit: %s", report.Repository))
	ew.printf("Range: %s → %s (%s)\n", orOpen(report.Since), orOpen(report.Until), report.TimestampSource)
	ew.printf("LFS threshold: %s\n", humanize.IBytes(uint64(report.ThresholdBytes)))
	ew.println(strings.Repeat("─", 60))

	s := report.Scan
	ew.printf("Scanned %d untracked files: %d selected, %d out of range", s.Scanned, s.Selected, s.OutOfRange)
	if s.Excluded > 0 {
		ew.printf(", %d excluded", s.Excluded)
	}
	ew.println("")
	if s.Broken > 0 || s.Failed > 0 {
		ew.printf("%s\n", yellow.Sprintf("Skipped: %d broken symbolic links, %d unreadable", s.Broken, s.Failed))
	}
	ew.println(strings.Repeat("─", 60))

	r := report.Result
	if len(r.Files) == 0 {
		ew.println("\nNo changes to commit.")
		return ew.err
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.AppendHeader(table.Row{"#", "Path", "Bucket"})
	for i, p := range r.Files {
		tbl.AppendRow(table.Row{i + 1, p, bucketOf(r, p)})
	}
	ew.printf("\n%s\n\n", tbl.Render())

	switch {
	case r.Committed:
		ew.printf("%s\n", green.Sprintf("Committed %d files as %s: %q", len(r.Files), shortHash(r.Hash), r.Message))
	case r.DryRun:
		ew.printf("%s\n", yellow.Sprintf("Dry run: %d files would be committed", len(r.Files)))
	}
	if r.Tracker != "" {
		ew.printf("Large files tracked with git lfs (%s strategy)\n", r.Tracker)
	}
	return ew.err
}

func orOpen(s string) string {
	if s == "" {
		return "open"
	}
	return s
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
