// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// RequireGit skips the test when no git binary is on PATH and pins the
// identity and config isolation every spawned git inherits.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("GIT_AUTHOR_NAME", "test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@test.com")
	t.Setenv("GIT_COMMITTER_NAME", "test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@test.com")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))
}

// NewRepo initializes a repository on branch main with one committed file
// and returns its root.
func NewRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)
	dir := t.TempDir()

	Run(t, dir, "init", "--quiet")
	Run(t, dir, "checkout", "--quiet", "-b", "main")
	WriteFile(t, dir, "README.md", "seed\n")
	Run(t, dir, "add", "README.md")
	Run(t, dir, "commit", "--quiet", "-m", "init")

	return dir
}

// NewBareRepo initializes a bare repository and returns its path.
func NewBareRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)
	dir := t.TempDir()
	Run(t, dir, "init", "--quiet", "--bare")
	return dir
}

// Run executes git in dir and returns trimmed stdout.
func Run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("git %v failed: %v\n%s", args, err, stderr)
	}
	return strings.TrimSpace(string(out))
}

// WriteFile writes content to rel under dir, creating parents.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}

// WriteSized writes a file of exactly size bytes. The file is sparse where
// the filesystem allows it.
func WriteSized(t *testing.T, dir, rel string, size int64) string {
	t.Helper()
	full := WriteFile(t, dir, rel, "")
	if err := os.Truncate(full, size); err != nil {
		t.Fatal(err)
	}
	return full
}

// Backdate sets a file's access and modification time.
func Backdate(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

// CommitCount returns the number of commits reachable from HEAD.
func CommitCount(t *testing.T, dir string) int {
	t.Helper()
	n, err := strconv.Atoi(Run(t, dir, "rev-list", "--count", "HEAD"))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// CommittedFiles lists the paths changed by the HEAD commit.
func CommittedFiles(t *testing.T, dir string) []string {
	t.Helper()
	out := Run(t, dir, "diff-tree", "--no-commit-id", "--name-only", "-r", "HEAD")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
