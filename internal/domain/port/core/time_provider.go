package core

import (
	"time"
)

// TimeProvider abstracts the clock so that "now" can be pinned in tests
type TimeProvider interface {
	// Now returns the current instant in UTC
	Now() time.Time
	// Since returns the time elapsed since t
	Since(t time.Time) time.Duration
	// After waits for the duration to elapse and then sends the current time
	After(d time.Duration) <-chan time.Time
}
