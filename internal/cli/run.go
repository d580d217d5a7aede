package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/datecommit/internal/commit"
	"github.com/dshills/datecommit/internal/config"
	"github.com/dshills/datecommit/internal/daterange"
	"github.com/dshills/datecommit/internal/gitrepo"
	"github.com/dshills/datecommit/internal/lfs"
	"github.com/dshills/datecommit/internal/logging"
	"github.com/dshills/datecommit/internal/output"
	"github.com/dshills/datecommit/internal/partition"
	"github.com/dshills/datecommit/internal/scan"
)

var errNoStartDate = errors.New("no start date specified")

// Flag variables for the root command.
var (
	flagConfig          string
	flagThresholdMB     int64
	flagTimestampSource string
	flagLFSMode         string
	flagIncludeModified bool
	flagExclude         string
	flagMessage         string
	flagDryRun          bool
	flagFormat          string
	flagOut             string
	flagLogLevel        string
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (default: user config dir)")
	cmd.Flags().Int64Var(&flagThresholdMB, "threshold-mb", -1, "Route files larger than this many MiB through Git LFS (default 100)")
	cmd.Flags().StringVar(&flagTimestampSource, "timestamp-source", "", "File timestamp to compare: ctime, mtime, birth")
	cmd.Flags().StringVar(&flagLFSMode, "lfs-mode", "", "LFS tracking strategy: auto, attributes, cli")
	cmd.Flags().BoolVar(&flagIncludeModified, "include-modified", false, "Also consider modified tracked files")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().StringVarP(&flagMessage, "message", "m", "", "Commit message")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Report what would be committed without touching the index")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagThresholdMB >= 0 {
		m["thresholdMB"] = strconv.FormatInt(flagThresholdMB, 10)
	}
	if flagTimestampSource != "" {
		m["timestampSource"] = flagTimestampSource
	}
	if flagLFSMode != "" {
		m["lfsMode"] = flagLFSMode
	}
	if flagIncludeModified {
		m["includeModified"] = "true"
	}
	if flagExclude != "" {
		m["exclude"] = flagExclude
	}
	if flagMessage != "" {
		m["message"] = flagMessage
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	return m
}

func runDateCommit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig, buildOverrides())
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logging.New(cmd.ErrOrStderr(), level)

	if err := commitRange(cmd.Context(), cmd.OutOrStdout(), log, cfg, args); err != nil {
		log.Error(err.Error())
		exitCode = ExitFailure
	}
	return nil
}

// commitRange runs one scan-partition-commit pass and writes the report.
func commitRange(ctx context.Context, stdout io.Writer, log *slog.Logger, cfg config.Config, args []string) error {
	repo, err := gitrepo.Open(args[0])
	if err != nil {
		return err
	}
	if len(args) < 3 {
		return errNoStartDate
	}

	rng, since, until, err := parseRange(args[1:])
	if err != nil {
		return err
	}

	src, err := scan.ParseSource(cfg.TimestampSource)
	if err != nil {
		return err
	}
	if err := scan.CheckSource(repo.Root(), src); err != nil {
		return err
	}

	paths, err := repo.Changed(ctx, cfg.IncludeModified)
	if err != nil {
		return err
	}
	parent, err := repo.Head()
	if err != nil {
		return err
	}
	log.Debug("scanning working tree", "root", repo.Root(), "files", len(paths), "since", since, "until", until)

	filter := scan.NewFilter(repo.Root(), src, log)
	filter.Exclude = cfg.Exclude
	selected := filter.Select(paths, rng)
	log.Debug("selected files", "paths", selected.Paths())

	threshold := partition.ThresholdBytes(cfg.ThresholdMB)
	buckets := partition.SplitCandidates(selected.Candidates, threshold, log)

	mode, err := lfs.ParseMode(cfg.LFSMode)
	if err != nil {
		return err
	}
	orch := &commit.Orchestrator{
		Root:    repo.Root(),
		Repo:    repo,
		Message: cfg.Message,
		DryRun:  flagDryRun,
		Log:     log,
		Tracker: func(ctx context.Context) (lfs.Tracker, error) {
			return lfs.Probe(ctx, repo.Root(), mode)
		},
	}
	result, err := orch.Run(ctx, buckets)
	if err != nil {
		return err
	}

	report := &output.Report{
		Repository:      repo.Root(),
		Parent:          parent,
		Since:           since,
		Until:           until,
		TimestampSource: string(src),
		ThresholdBytes:  threshold,
		Scan:            output.Summarize(selected),
		Result:          result,
	}
	if err := output.WriteReport(report, cfg.Format, flagOut, stdout); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// parseRange turns the positional date arguments into a range. bounds holds
// either a start date and zone, or start and end pairs.
func parseRange(bounds []string) (rng daterange.Range, since, until string, err error) {
	start, err := daterange.Parse(bounds[0], bounds[1])
	if err != nil {
		return rng, "", "", fmt.Errorf("start boundary: %w", err)
	}
	since = start.String()

	var end *daterange.Boundary
	if len(bounds) >= 4 {
		b, err := daterange.Parse(bounds[2], bounds[3])
		if err != nil {
			return rng, "", "", fmt.Errorf("end boundary: %w", err)
		}
		end = &b
		until = b.String()
	}

	rng, err = daterange.New(&start, end)
	if err != nil {
		return rng, "", "", err
	}
	return rng, since, until, nil
}
