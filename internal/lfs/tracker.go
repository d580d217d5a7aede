package lfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// AttributesFile is the tracking configuration file, relative to the root.
const AttributesFile = ".gitattributes"

const attributes = "filter=lfs diff=lfs merge=lfs -text"

// ErrUnavailable means no large-file tracking mechanism can be used.
var ErrUnavailable = errors.New("git lfs is not available")

// Tracker registers files for large-file storage.
type Tracker interface {
	Name() string
	Track(ctx context.Context, root string, paths []string) error
}

// AttributesTracker appends LFS attribute lines to .gitattributes directly.
type AttributesTracker struct{}

func (AttributesTracker) Name() string { return "attributes" }

// Track adds a line for every path not already listed. Existing content is
// preserved.
func (AttributesTracker) Track(_ context.Context, root string, paths []string) error {
	file := filepath.Join(root, AttributesFile)
	existing, err := os.ReadFile(file)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", AttributesFile, err)
	}

	known := trackedPatterns(string(existing))
	var b strings.Builder
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		b.WriteByte('\n')
	}
	added := 0
	for _, p := range paths {
		pattern := EscapePattern(p)
		if known[pattern] {
			continue
		}
		known[pattern] = true
		fmt.Fprintf(&b, "%s %s\n", pattern, attributes)
		added++
	}
	if added == 0 {
		return nil
	}

	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", AttributesFile, err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", AttributesFile, err)
	}
	return f.Close()
}

// trackedPatterns returns the patterns already routed through the lfs filter.
func trackedPatterns(content string) map[string]bool {
	known := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		for _, attr := range fields[1:] {
			if attr == "filter=lfs" {
				known[fields[0]] = true
				break
			}
		}
	}
	return known
}

// EscapePattern turns a literal path into a .gitattributes pattern matching
// only that path, escaping the same characters "git lfs track --filename"
// does.
func EscapePattern(path string) string {
	var b strings.Builder
	for i, r := range path {
		switch {
		case r == ' ':
			b.WriteString("[[:space:]]")
		case r == '*' || r == '?' || r == '[' || r == ']' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case i == 0 && (r == '#' || r == '!'):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RunFunc runs a command in dir and returns its combined output.
type RunFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// CLITracker shells out to "git lfs track" per file.
type CLITracker struct {
	Run RunFunc
}

func (CLITracker) Name() string { return "cli" }

// Track runs git lfs track for every path, then checks that .gitattributes
// exists.
func (t CLITracker) Track(ctx context.Context, root string, paths []string) error {
	run := t.Run
	if run == nil {
		run = execRun
	}
	for _, p := range paths {
		out, err := run(ctx, root, "git", "lfs", "track", "--filename", "--", p)
		if err != nil {
			return fmt.Errorf("git lfs track %s: %w: %s", p, err, strings.TrimSpace(string(out)))
		}
	}
	if len(paths) == 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(root, AttributesFile)); err != nil {
		return fmt.Errorf("git lfs track left no %s: %w", AttributesFile, err)
	}
	return nil
}
