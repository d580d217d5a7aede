package scan

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/datecommit/internal/daterange"
	"github.com/dshills/datecommit/internal/logging"
)

func writeFile(t *testing.T, root, rel string, size int, mtime time.Time) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, make([]byte, size), 0o644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(full, mtime, mtime))
	}
}

func mustRange(t *testing.T, since, until string) daterange.Range {
	t.Helper()
	var sb, ub *daterange.Boundary
	if since != "" {
		b, err := daterange.Parse(since, "UTC")
		require.NoError(t, err)
		sb = &b
	}
	if until != "" {
		b, err := daterange.Parse(until, "UTC")
		require.NoError(t, err)
		ub = &b
	}
	r, err := daterange.New(sb, ub)
	require.NoError(t, err)
	return r
}

func TestSelect_RangeProperty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "before.txt", 10, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC))
	writeFile(t, root, "start.txt", 10, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	writeFile(t, root, "inside.txt", 10, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	writeFile(t, root, "end.txt", 10, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	writeFile(t, root, "after.txt", 10, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	f := NewFilter(root, SourceModify, nil)
	res := f.Select([]string{"after.txt", "before.txt", "end.txt", "inside.txt", "start.txt"},
		mustRange(t, "2024-01-01", "2024-02-01"))

	assert.Equal(t, []string{"inside.txt", "start.txt"}, res.Paths())
	assert.Equal(t, 5, res.Scanned)
	assert.Equal(t, 3, res.OutOfRange)
	for _, c := range res.Candidates {
		assert.Equal(t, time.UTC, c.Time.Location())
		assert.EqualValues(t, 10, c.Size)
	}
}

func TestSelect_LogsOutOfRangeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "old.txt", 1, time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC))
	writeFile(t, root, "new.txt", 1, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	var rec logging.Recorder
	res := NewFilter(root, SourceModify, &rec).Select([]string{"new.txt", "old.txt"}, mustRange(t, "2024-01-01", ""))
	assert.Equal(t, []string{"new.txt"}, res.Paths())

	debug := rec.At(slog.LevelDebug)
	require.Equal(t, []string{"outside date range"}, debug)
	for _, e := range rec.Entries() {
		if e.Level == slog.LevelDebug {
			assert.Equal(t, []any{"path", "old.txt", "time", "2020-06-01T12:00:00Z"}, e.Args)
		}
	}
}

func TestSelect_UnboundedSelectsAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "old.txt", 1, time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	writeFile(t, root, "dir/new.txt", 1, time.Time{})

	res := NewFilter(root, SourceModify, nil).Select([]string{"old.txt", "dir/new.txt"}, daterange.Unbounded())
	assert.Equal(t, []string{"old.txt", "dir/new.txt"}, res.Paths())
}

func TestSelect_TodayScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", 10*1024, time.Time{})
	writeFile(t, root, "old.txt", 10*1024, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	today := time.Now().UTC().Format("2006-01-02")
	res := NewFilter(root, SourceModify, nil).Select([]string{"a.txt", "old.txt"}, mustRange(t, today, ""))
	assert.Equal(t, []string{"a.txt"}, res.Paths())
}

func TestSelect_ChangeTimeReflectsCreation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("ctime is not recorded on windows")
	}
	root := t.TempDir()
	// Backdating mtime does not move ctime, so the fresh file is still selected.
	writeFile(t, root, "fresh.txt", 1, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC))

	since := time.Now().Add(-time.Hour).UTC().Format("2006-01-02T15:04:05")
	res := NewFilter(root, SourceChange, nil).Select([]string{"fresh.txt"}, mustRange(t, since, ""))
	assert.Equal(t, []string{"fresh.txt"}, res.Paths())

	res = NewFilter(root, SourceModify, nil).Select([]string{"fresh.txt"}, mustRange(t, since, ""))
	assert.Empty(t, res.Paths())
}

func TestSelect_BrokenSymlinkIsWarning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeFile(t, root, "a.txt", 1, time.Time{})
	require.NoError(t, os.Symlink("does-not-exist", filepath.Join(root, "dangling")))
	writeFile(t, root, "b.txt", 1, time.Time{})

	var rec logging.Recorder
	res := NewFilter(root, SourceModify, &rec).Select([]string{"a.txt", "dangling", "b.txt"}, daterange.Unbounded())

	assert.Equal(t, []string{"a.txt", "b.txt"}, res.Paths())
	assert.Equal(t, 1, res.Broken)
	assert.Zero(t, res.Failed)
	assert.Equal(t, []string{"broken symbolic link"}, rec.At(slog.LevelWarn))
	assert.Empty(t, rec.At(slog.LevelError))
}

func TestSelect_VanishedFileIsError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "kept.txt", 1, time.Time{})

	var rec logging.Recorder
	res := NewFilter(root, SourceModify, &rec).Select([]string{"gone.txt", "kept.txt"}, daterange.Unbounded())

	assert.Equal(t, []string{"kept.txt"}, res.Paths())
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"error accessing file"}, rec.At(slog.LevelError))
	assert.Empty(t, rec.At(slog.LevelWarn))
}

func TestSelect_Exclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", 1, time.Time{})
	writeFile(t, root, "build/out.bin", 1, time.Time{})
	writeFile(t, root, "logs/app.log", 1, time.Time{})

	f := NewFilter(root, SourceModify, nil)
	f.Exclude = []string{"build/**", "**/*.log"}
	res := f.Select([]string{"keep.go", "build/out.bin", "logs/app.log"}, daterange.Unbounded())

	assert.Equal(t, []string{"keep.go"}, res.Paths())
	assert.Equal(t, 2, res.Excluded)
}

func TestClassify(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "plain.txt", 1, time.Time{})

	assert.Equal(t, SeverityError, Classify(filepath.Join(root, "missing"), os.ErrNotExist))
	assert.Equal(t, SeverityError, Classify(filepath.Join(root, "plain.txt"), os.ErrPermission))

	if runtime.GOOS != "windows" {
		link := filepath.Join(root, "link")
		require.NoError(t, os.Symlink("nowhere", link))
		assert.Equal(t, SeverityWarning, Classify(link, os.ErrNotExist))

		good := filepath.Join(root, "good")
		require.NoError(t, os.Symlink("plain.txt", good))
		assert.Equal(t, SeverityError, Classify(good, os.ErrInvalid))
	}
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
}

func TestParseSource(t *testing.T) {
	for _, in := range []string{"ctime", "MTIME", " birth "} {
		_, err := ParseSource(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseSource("atime")
	assert.Error(t, err)
}

func TestCheckSource(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, CheckSource(root, SourceModify))
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.NoError(t, CheckSource(root, SourceChange))
	}
	assert.Error(t, CheckSource(filepath.Join(root, "missing"), SourceModify))
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"vendor/lib.go", []string{"vendor/**"}, true},
		{"vendor/deep/lib.go", []string{"vendor/**"}, true},
		{"main.go", []string{"vendor/**"}, false},
		{"foo.gen.go", []string{"**/*.gen.go"}, true},
		{"pkg/foo.gen.go", []string{"**/*.gen.go"}, true},
		{"dist/bundle.js", []string{"**/dist/**"}, true},
		{"main.go", []string{"*.go"}, true},
		{"main.go", nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesAny(tt.path, tt.patterns), "%s %v", tt.path, tt.patterns)
	}
}
