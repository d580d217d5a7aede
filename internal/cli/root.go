package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes. Help output counts as a failure so scripts never mistake it
// for a commit.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

var errUsage = errors.New("wrong number of arguments")

var rootCmd = &cobra.Command{
	Use:   "datecommit <directory> [<start_date> <start_timezone> [<end_date> <end_timezone>]]",
	Short: "Commit untracked files created within a date range",
	Long: `datecommit scans a git working tree for untracked files, keeps the ones whose
filesystem timestamp falls in [start, end), routes files larger than the LFS
threshold through Git LFS, and records everything in a single commit.

Dates are naive ISO-8601 values (2024-01-25 or 2024-01-25T14:30:00) interpreted
in the IANA timezone that follows them. The end boundary is optional.`,
	Example: `  datecommit ~/photos 2024-01-25 America/New_York
  datecommit ~/photos 2024-01-25 UTC 2024-02-01 Europe/London
  datecommit --dry-run --format json . 2024-01-25T09:00 Asia/Tokyo`,
	Args:          validateArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runDateCommit,
}

// validateArgs accepts the directory alone (reported later as a missing start
// date), the directory plus a start boundary, or both boundaries.
func validateArgs(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 1, 3, 5:
		return nil
	default:
		return fmt.Errorf("%w: got %d", errUsage, len(args))
	}
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	exitCode = ExitSuccess
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, rootCmd.UsageString())
		}
		return ExitFailure
	}
	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print datecommit version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "datecommit version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	showHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		showHelp(cmd, args)
		exitCode = ExitFailure
	})

	addRunFlags(rootCmd)
}
