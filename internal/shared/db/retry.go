package db

import (
	"strings"
	"time"
)

// transientMarkers are substrings of driver errors worth retrying: lock
// contention and serialization conflicts, not logical failures.
var transientMarkers = []string{
	"Deadlock found",
	"Lock wait timeout",
	"database is locked",
	"could not serialize access",
}

// IsTransientError reports whether the error looks like lock contention or
// a serialization conflict.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// WithRetry runs fn up to attempts times, retrying only transient store
// errors with a short linear backoff. Any other error is returned as-is;
// the caller sees no partial write either way since fn is transactional.
func WithRetry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !IsTransientError(err) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 50 * time.Millisecond)
	}
	return err
}
