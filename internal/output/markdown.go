package output

import (
	"io"
	"strings"
)

// MarkdownWriter outputs a short markdown summary.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}
	r := report.Result

	ew.printf("## datecommit: `%s`\n\n", report.Repository)
	ew.printf("| Scanned | Selected | Out of range | Excluded | Broken links | Unreadable |\n")
	ew.printf("|---------|----------|--------------|----------|--------------|------------|\n")
	s := report.Scan
	ew.printf("| %d | %d | %d | %d | %d | %d |\n\n", s.Scanned, s.Selected, s.OutOfRange, s.Excluded, s.Broken, s.Failed)

	if len(r.Files) == 0 {
		ew.println("No changes to commit.")
		return ew.err
	}

	switch {
	case r.Committed:
		ew.printf("Committed `%s`: %s\n\n", shortHash(r.Hash), escapeMarkdown(r.Message))
	case r.DryRun:
		ew.printf("Dry run, nothing committed.\n\n")
	}

	ew.printf("<details>\n<summary>%d files</summary>\n\n", len(r.Files))
	for _, p := range r.Files {
		ew.printf("- `%s`%s\n", p, mdBucketNote(bucketOf(r, p)))
	}
	ew.printf("\n</details>\n")
	return ew.err
}

func mdBucketNote(bucket string) string {
	switch bucket {
	case "lfs":
		return " (LFS)"
	case "tracking":
		return " (LFS tracking)"
	default:
		return ""
	}
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`").Replace(s)
}
