package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNotRepository     = errors.New("not a git repository")
	ErrBareRepository    = errors.New("bare repository has no working tree")
	ErrGitNotFound       = errors.New("git executable not found in PATH")
)

// Repository is an opened, non-bare working tree.
type Repository struct {
	root    string
	repo    *git.Repository
	gitPath string
}

// Open validates dir and opens the repository rooted there. dir must be the
// top of the working tree; parent directories are not searched.
func Open(dir string) (*Repository, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: false})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("opening repository %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return nil, fmt.Errorf("%w: %s", ErrBareRepository, dir)
		}
		return nil, fmt.Errorf("opening worktree %s: %w", dir, err)
	}

	gitPath, _ := exec.LookPath("git")
	return &Repository{
		root:    wt.Filesystem.Root(),
		repo:    repo,
		gitPath: gitPath,
	}, nil
}

// Root returns the absolute path of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// Changed lists untracked files and, when includeModified is set, tracked
// files with unstaged modifications. Paths are sorted and slash separated.
//
// Both lists come from the git binary so ignore rules (including
// core.excludesFile and info/exclude) and clean filters apply exactly as they
// do for git add.
func (r *Repository) Changed(ctx context.Context, includeModified bool) ([]string, error) {
	out, err := r.run(ctx, nil, "ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, fmt.Errorf("listing untracked files: %w", err)
	}
	paths := splitNUL(out)

	if includeModified {
		out, err := r.run(ctx, nil, "diff", "--name-only", "--diff-filter=M", "--no-renames", "-z")
		if err != nil {
			return nil, fmt.Errorf("listing modified files: %w", err)
		}
		paths = append(paths, splitNUL(out)...)
	}
	sort.Strings(paths)
	return paths, nil
}

// splitNUL splits NUL-terminated git output. Directory entries (nested
// repositories) end in a slash and are dropped.
func splitNUL(out string) []string {
	var paths []string
	for _, p := range strings.Split(out, "\x00") {
		if p == "" || strings.HasSuffix(p, "/") {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// Head returns the commit HEAD points at, or "" for an unborn branch. It is
// read in-process so a report can name the parent of the commit it makes.
func (r *Repository) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// Stage adds paths to the index in one git call. A held index lock is
// retried with backoff.
func (r *Repository) Stage(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	err := retryOnLock(ctx, func() error {
		_, err := r.run(ctx, pathspecInput(paths),
			"--literal-pathspecs", "add", "--pathspec-from-file=-", "--pathspec-file-nul")
		return err
	})
	if err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

// Commit records paths, which must already be staged, in a new commit and
// returns its hash. Other staged changes are left in the index.
func (r *Repository) Commit(ctx context.Context, message string, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("git commit: no paths")
	}
	err := retryOnLock(ctx, func() error {
		_, err := r.run(ctx, pathspecInput(paths),
			"--literal-pathspecs", "commit", "--quiet", "--no-verify",
			"-m", message,
			"--pathspec-from-file=-", "--pathspec-file-nul")
		return err
	})
	if err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}
	hash, err := r.run(ctx, nil, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %w", err)
	}
	return strings.TrimSpace(hash), nil
}

// Command creates a git command that runs in the working tree.
func (r *Repository) Command(ctx context.Context, args ...string) (*exec.Cmd, error) {
	if r.gitPath == "" {
		return nil, ErrGitNotFound
	}
	cmd := exec.CommandContext(ctx, r.gitPath, args...)
	cmd.Dir = r.root
	return cmd, nil
}

func (r *Repository) run(ctx context.Context, stdin io.Reader, args ...string) (string, error) {
	cmd, err := r.Command(ctx, args...)
	if err != nil {
		return "", err
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}

func pathspecInput(paths []string) io.Reader {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte(0)
	}
	return strings.NewReader(b.String())
}

// CommandError is a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.Args, " "), e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
