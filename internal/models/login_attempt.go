package models

import (
	"math"
	"time"
)

// LoginAttemptStats aggregates failed logins for one username
type LoginAttemptStats struct {
	Username     string
	FailedCount  int        // Failed attempts in lookback window
	FirstFailure time.Time  // Start of the current window
	LastFailure  time.Time
	LockedUntil  *time.Time // When the lock expires
}

// IsLocked reports whether the lock is still in force at now
func (s LoginAttemptStats) IsLocked(now time.Time) bool {
	return s.LockedUntil != nil && now.Before(*s.LockedUntil)
}

// SecondsRemaining is the lock time left rounded up to whole seconds
func (s LoginAttemptStats) SecondsRemaining(now time.Time) int {
	if !s.IsLocked(now) {
		return 0
	}
	return int(math.Ceil(s.LockedUntil.Sub(now).Seconds()))
}
