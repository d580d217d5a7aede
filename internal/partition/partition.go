// Package partition splits selected files into the normal and large buckets.
package partition

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/dshills/datecommit/internal/logging"
	"github.com/dshills/datecommit/internal/scan"
)

// MiB is the unit thresholds are configured in.
const MiB = 1024 * 1024

// DefaultThresholdMB is the large-file threshold when none is configured.
const DefaultThresholdMB = 100

// MaxThresholdMB is the largest threshold whose byte count fits in an int64.
const MaxThresholdMB = math.MaxInt64 / MiB

// ThresholdBytes converts a threshold in mebibytes to bytes. mb must not
// exceed MaxThresholdMB.
func ThresholdBytes(mb int64) int64 {
	return mb * MiB
}

// Buckets holds the two partitions, each in input order.
type Buckets struct {
	Normal []string
	Large  []string
}

// SplitCandidates buckets candidates using the sizes captured during the scan.
func SplitCandidates(candidates []scan.Candidate, threshold int64, log logging.Sink) Buckets {
	if log == nil {
		log = logging.Discard
	}
	var b Buckets
	for _, c := range candidates {
		if c.Size > threshold {
			log.Info("large file routed to LFS",
				"path", c.Path,
				"size", humanize.IBytes(uint64(c.Size)),
				"threshold", humanize.IBytes(uint64(threshold)))
			b.Large = append(b.Large, c.Path)
			continue
		}
		b.Normal = append(b.Normal, c.Path)
	}
	return b
}
