package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/datecommit/internal/commit"
	"github.com/dshills/datecommit/internal/scan"
)

func sampleReport() *Report {
	return &Report{
		Repository:      "/repo",
		Parent:          "fedcba9876543210fedcba9876543210fedcba98",
		Since:           "2024-01-25T00:00:00-08:00",
		TimestampSource: "ctime",
		ThresholdBytes:  100 * 1024 * 1024,
		Scan:            ScanSummary{Scanned: 4, Selected: 2, OutOfRange: 1, Broken: 1},
		Result: commit.Result{
			Committed: true,
			Hash:      "0123456789abcdef0123456789abcdef01234567",
			Message:   "Auto commit changes",
			Tracker:   "cli",
			Files:     []string{"a.txt", "big.bin", ".gitattributes"},
			Normal:    []string{"a.txt"},
			Large:     []string{"big.bin"},
		},
	}
}

func emptyReport() *Report {
	return &Report{
		Repository:      "/repo",
		TimestampSource: "mtime",
		ThresholdBytes:  1024,
		Scan:            ScanSummary{Scanned: 2, OutOfRange: 2},
	}
}

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestGetWriter(t *testing.T) {
	for _, f := range []string{"text", "json", "markdown", ""} {
		_, err := GetWriter(f)
		assert.NoError(t, err, f)
	}
	_, err := GetWriter("sarif")
	assert.Error(t, err)
}

func TestJSONWriter_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONWriter{}).Write(&buf, sampleReport()))

	g := goldie.New(t)
	g.Assert(t, "report", buf.Bytes())

	var parsed Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, *sampleReport(), parsed)
}

func TestTextWriter_Committed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextWriter{}).Write(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "datecommit: /repo")
	assert.NotContains(t, out, "\u2014")
	assert.Contains(t, out, "Range: 2024-01-25T00:00:00-08:00 → open (ctime)")
	assert.Contains(t, out, "LFS threshold: 100 MiB")
	assert.Contains(t, out, "Scanned 4 untracked files: 2 selected, 1 out of range")
	assert.Contains(t, out, "Skipped: 1 broken symbolic links, 0 unreadable")
	assert.Contains(t, out, "big.bin")
	assert.Contains(t, out, "lfs")
	assert.Contains(t, out, "tracking")
	assert.Contains(t, out, `Committed 3 files as 0123456789ab: "Auto commit changes"`)
	assert.Contains(t, out, "(cli strategy)")
}

func TestTextWriter_NothingToCommit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextWriter{}).Write(&buf, emptyReport()))
	out := buf.String()

	assert.Contains(t, out, "No changes to commit.")
	assert.NotContains(t, out, "Skipped")
	assert.NotContains(t, out, "Committed")
}

func TestTextWriter_DryRun(t *testing.T) {
	r := sampleReport()
	r.Result.Committed = false
	r.Result.DryRun = true
	r.Result.Hash = ""

	var buf bytes.Buffer
	require.NoError(t, (&TextWriter{}).Write(&buf, r))
	assert.Contains(t, buf.String(), "Dry run: 3 files would be committed")
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownWriter{}).Write(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "## datecommit: `/repo`")
	assert.Contains(t, out, "| 4 | 2 | 1 | 0 | 1 | 0 |")
	assert.Contains(t, out, "Committed `0123456789ab`: Auto commit changes")
	assert.NotContains(t, out, "\u2014")
	assert.Contains(t, out, "- `big.bin` (LFS)")
	assert.Contains(t, out, "- `.gitattributes` (LFS tracking)")
	assert.Contains(t, out, "- `a.txt`\n")

	buf.Reset()
	require.NoError(t, (&MarkdownWriter{}).Write(&buf, emptyReport()))
	assert.Contains(t, buf.String(), "No changes to commit.")
}

func TestWriteReport_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(sampleReport(), "json", path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	assert.Error(t, WriteReport(sampleReport(), "xml", path, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteReport(emptyReport(), "markdown", "", &buf))
	assert.Contains(t, buf.String(), "No changes to commit.")
}

func TestSummarize(t *testing.T) {
	s := Summarize(scan.Result{
		Candidates: []scan.Candidate{{Path: "a"}, {Path: "b"}},
		Scanned:    6,
		OutOfRange: 1,
		Excluded:   1,
		Broken:     1,
		Failed:     1,
	})
	assert.Equal(t, ScanSummary{Scanned: 6, Selected: 2, OutOfRange: 1, Excluded: 1, Broken: 1, Failed: 1}, s)
}
