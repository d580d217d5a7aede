package output

import (
	"github.com/dshills/datecommit/internal/commit"
	"github.com/dshills/datecommit/internal/scan"
)

// Report is everything a run did, in serializable form.
type Report struct {
	Repository      string        `json:"repository"`
	Parent          string        `json:"parent,omitempty"`
	Since           string        `json:"since,omitempty"`
	Until           string        `json:"until,omitempty"`
	TimestampSource string        `json:"timestampSource"`
	ThresholdBytes  int64         `json:"thresholdBytes"`
	Scan            ScanSummary   `json:"scan"`
	Result          commit.Result `json:"result"`
}

// ScanSummary counts what happened to each untracked file.
type ScanSummary struct {
	Scanned    int `json:"scanned"`
	Selected   int `json:"selected"`
	OutOfRange int `json:"outOfRange"`
	Excluded   int `json:"excluded"`
	Broken     int `json:"brokenLinks"`
	Failed     int `json:"failed"`
}

// Summarize converts a scan result into its summary counts.
func Summarize(r scan.Result) ScanSummary {
	return ScanSummary{
		Scanned:    r.Scanned,
		Selected:   len(r.Candidates),
		OutOfRange: r.OutOfRange,
		Excluded:   r.Excluded,
		Broken:     r.Broken,
		Failed:     r.Failed,
	}
}

// bucketOf names the bucket a committed path came from.
func bucketOf(r commit.Result, path string) string {
	for _, p := range r.Large {
		if p == path {
			return "lfs"
		}
	}
	for _, p := range r.Normal {
		if p == path {
			return "normal"
		}
	}
	return "tracking"
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
