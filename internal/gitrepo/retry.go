package gitrepo

import (
	"context"
	"errors"
	"strings"
	"time"
)

// maxLockRetries bounds how often a write is retried while another git
// process holds the index lock.
const maxLockRetries = 4

// lockBackoff is the first wait; each retry doubles it.
var lockBackoff = 250 * time.Millisecond

// IsLockContention reports whether err is a git failure caused by an existing
// index.lock (or other ref lock) file.
func IsLockContention(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return strings.Contains(cmdErr.Stderr, ".lock': File exists") ||
		(strings.Contains(cmdErr.Stderr, "Unable to create") && strings.Contains(cmdErr.Stderr, ".lock"))
}

func retryOnLock(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxLockRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		// Only lock contention is transient.
		if !IsLockContention(lastErr) {
			return lastErr
		}

		if attempt < maxLockRetries {
			backoff := lockBackoff << uint(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
