package scan

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dshills/datecommit/internal/logging"
)

// Severity is how loudly a per-file stat failure is reported.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Classify decides the severity of err, encountered while stating path.
// A symbolic link whose target is missing is a warning; everything else,
// including a link that exists but cannot be followed for another reason,
// is an error.
func Classify(path string, err error) Severity {
	if errors.Is(err, fs.ErrPermission) {
		return SeverityError
	}
	li, lerr := os.Lstat(path)
	if lerr != nil || li.Mode()&fs.ModeSymlink == 0 {
		return SeverityError
	}
	if _, serr := os.Stat(path); errors.Is(serr, fs.ErrNotExist) {
		return SeverityWarning
	}
	return SeverityError
}

// Report classifies err and logs it through log. rel is the repository
// relative path shown to the user; full is what gets inspected.
func Report(log logging.Sink, rel, full string, err error) Severity {
	sev := Classify(full, err)
	if sev == SeverityWarning {
		log.Warn("broken symbolic link", "path", rel)
	} else {
		log.Error("error accessing file", "path", rel, "err", err)
	}
	return sev
}
