package scan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/djherbis/times"
)

// Source names the file timestamp used for range checks.
type Source string

const (
	SourceChange Source = "ctime"
	SourceModify Source = "mtime"
	SourceBirth  Source = "birth"
)

// ErrSourceUnavailable is returned when the platform or filesystem does not
// record the requested timestamp.
var ErrSourceUnavailable = errors.New("timestamp source not available")

// ParseSource validates a source name.
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case SourceChange, SourceModify, SourceBirth:
		return src, nil
	default:
		return "", fmt.Errorf("unknown timestamp source %q (want ctime, mtime, birth)", s)
	}
}

// CheckSource stats path and fails when src cannot be read there. Callers
// run it once against the repository root before scanning.
func CheckSource(path string, src Source) error {
	ts, err := times.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if _, err := src.from(ts); err != nil {
		return fmt.Errorf("%s on %s: %w", src, path, err)
	}
	return nil
}

func (s Source) from(ts times.Timespec) (time.Time, error) {
	switch s {
	case SourceModify:
		return ts.ModTime().UTC(), nil
	case SourceChange:
		if !ts.HasChangeTime() {
			return time.Time{}, ErrSourceUnavailable
		}
		return ts.ChangeTime().UTC(), nil
	case SourceBirth:
		if !ts.HasBirthTime() {
			return time.Time{}, ErrSourceUnavailable
		}
		return ts.BirthTime().UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unknown timestamp source %q", string(s))
	}
}
