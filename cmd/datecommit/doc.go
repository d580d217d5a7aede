// Datecommit commits the untracked files of a git working tree whose
// filesystem timestamp falls within a timezone-aware date range.
//
// Files larger than the LFS threshold (100 MiB by default) are tracked with
// Git LFS before staging, and everything lands in a single commit.
//
// Usage:
//
//	datecommit <directory> <start_date> <start_tz>                       # everything since start
//	datecommit <directory> <start_date> <start_tz> <end_date> <end_tz>   # half-open [start, end)
//	datecommit --dry-run --format json <directory> 2024-01-25 UTC        # preview as JSON
//	datecommit config init                                               # write default config
//
// The range is half-open: a file stamped exactly at the end boundary is left
// alone.
package main
