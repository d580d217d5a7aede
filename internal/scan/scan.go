package scan

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/djherbis/times"

	"github.com/dshills/datecommit/internal/daterange"
	"github.com/dshills/datecommit/internal/logging"
)

// Candidate is an untracked file that passed the range check.
type Candidate struct {
	Path string    // repository relative, slash separated
	Time time.Time // UTC
	Size int64
}

// Result is the outcome of one scan.
type Result struct {
	Candidates []Candidate
	Scanned    int
	OutOfRange int
	Excluded   int
	Broken     int // dangling symbolic links
	Failed     int // other stat failures
}

// Paths returns the candidate paths in scan order.
func (r Result) Paths() []string {
	paths := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		paths[i] = c.Path
	}
	return paths
}

// Filter selects untracked files by timestamp.
type Filter struct {
	Root    string
	Source  Source
	Exclude []string
	Log     logging.Sink
}

// NewFilter returns a filter for the working tree at root.
func NewFilter(root string, src Source, log logging.Sink) *Filter {
	if log == nil {
		log = logging.Discard
	}
	return &Filter{Root: root, Source: src, Log: log}
}

// Select walks paths in order and keeps those whose timestamp lies in rng.
// Files that cannot be inspected are reported and skipped.
func (f *Filter) Select(paths []string, rng daterange.Range) Result {
	res := Result{Scanned: len(paths)}
	for _, rel := range paths {
		if len(f.Exclude) > 0 && MatchesAny(rel, f.Exclude) {
			f.Log.Info("excluded by pattern", "path", rel)
			res.Excluded++
			continue
		}

		full := filepath.Join(f.Root, filepath.FromSlash(rel))
		c, err := f.inspect(rel, full)
		if err != nil {
			if Report(f.Log, rel, full, err) == SeverityWarning {
				res.Broken++
			} else {
				res.Failed++
			}
			continue
		}

		if !rng.Contains(c.Time) {
			f.Log.Debug("outside date range", "path", rel, "time", c.Time.Format(time.RFC3339))
			res.OutOfRange++
			continue
		}
		res.Candidates = append(res.Candidates, c)
	}

	f.Log.Info("all untracked files processed",
		"processed", res.Scanned,
		"selected", len(res.Candidates),
		"source", string(f.Source))
	return res
}

func (f *Filter) inspect(rel, full string) (Candidate, error) {
	fi, err := os.Stat(full)
	if err != nil {
		return Candidate{}, err
	}
	ts, err := times.Stat(full)
	if err != nil {
		return Candidate{}, err
	}
	t, err := f.Source.from(ts)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{Path: rel, Time: t, Size: fi.Size()}, nil
}

// MatchesAny returns true if the path matches any of the given glob patterns.
// A leading "**/" also matches at any depth, and "dir/**" matches everything
// below dir.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok && !strings.ContainsAny(prefix, "*?[") {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
