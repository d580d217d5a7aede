// Package commit stages the selected files and records them in one commit.
package commit

import (
	"context"
	"fmt"

	"github.com/dshills/datecommit/internal/lfs"
	"github.com/dshills/datecommit/internal/logging"
	"github.com/dshills/datecommit/internal/partition"
)

// DefaultMessage is the commit message unless one is configured.
const DefaultMessage = "Auto commit changes"

// Stager is the slice of the git client the orchestrator needs.
type Stager interface {
	Stage(ctx context.Context, paths []string) error
	Commit(ctx context.Context, message string, paths []string) (string, error)
}

// Result describes what a run did.
type Result struct {
	Committed bool     `json:"committed"`
	DryRun    bool     `json:"dryRun,omitempty"`
	Hash      string   `json:"hash,omitempty"`
	Message   string   `json:"message,omitempty"`
	Tracker   string   `json:"lfsTracker,omitempty"`
	Files     []string `json:"files"`
	Normal    []string `json:"normal"`
	Large     []string `json:"large"`
}

// Orchestrator turns partitioned files into a commit.
type Orchestrator struct {
	Root    string
	Repo    Stager
	Message string
	DryRun  bool
	Log     logging.Sink

	// Tracker is called only when there are large files. Returning an error
	// aborts the run before anything is staged.
	Tracker func(ctx context.Context) (lfs.Tracker, error)
}

// Files returns the commit set: normal files, then large files, then the LFS
// attributes file when any large file is present. Duplicates keep their first
// position.
func Files(b partition.Buckets) []string {
	seen := make(map[string]bool, len(b.Normal)+len(b.Large)+1)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, p := range b.Normal {
		add(p)
	}
	for _, p := range b.Large {
		add(p)
	}
	if len(b.Large) > 0 {
		add(lfs.AttributesFile)
	}
	return files
}

// Run tracks large files, then stages and commits everything in one step.
// With nothing selected it makes no git calls and returns a zero Result.
func (o *Orchestrator) Run(ctx context.Context, b partition.Buckets) (Result, error) {
	log := o.Log
	if log == nil {
		log = logging.Discard
	}
	msg := o.Message
	if msg == "" {
		msg = DefaultMessage
	}

	files := Files(b)
	res := Result{Files: files, Normal: b.Normal, Large: b.Large, DryRun: o.DryRun}
	if len(files) == 0 {
		log.Info("No changes to commit.")
		return res, nil
	}

	if len(b.Large) > 0 {
		if o.Tracker == nil {
			return res, fmt.Errorf("large-file tracking: %w", lfs.ErrUnavailable)
		}
		tracker, err := o.Tracker(ctx)
		if err != nil {
			return res, fmt.Errorf("large-file tracking: %w", err)
		}
		res.Tracker = tracker.Name()
		if o.DryRun {
			log.Info("dry run: would track large files", "count", len(b.Large), "tracker", tracker.Name())
		} else {
			if err := tracker.Track(ctx, o.Root, b.Large); err != nil {
				return res, fmt.Errorf("large-file tracking: %w", err)
			}
			log.Info("large files tracked", "count", len(b.Large), "tracker", tracker.Name())
		}
	}

	if o.DryRun {
		log.Info("dry run: nothing staged", "files", len(files))
		for _, p := range files {
			log.Info("- " + p)
		}
		return res, nil
	}

	if err := o.Repo.Stage(ctx, files); err != nil {
		return res, err
	}
	hash, err := o.Repo.Commit(ctx, msg, files)
	if err != nil {
		return res, err
	}
	res.Committed = true
	res.Hash = hash
	res.Message = msg

	log.Info("Changes committed to Git repository.", "commit", hash)
	log.Info("Committed files:")
	for _, p := range files {
		log.Info("- " + p)
	}
	return res, nil
}
