package identity

import (
	"time"

	"github.com/shopapi/backend/internal/domain/shared"
)

// Lockout errors
var (
	ErrInvalidCredentials       = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrAccountLocked            = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")
	ErrAccountPermanentlyLocked = shared.NewDomainError("ACCOUNT_PERMANENTLY_LOCKED", "Account is permanently locked, contact an administrator")
)

// LockoutPolicy holds the thresholds applied to failed login attempts
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
	ResetWindow  time.Duration
}

// DefaultLockoutPolicy returns the policy used when nothing is configured
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		MaxAttempts:  5,
		LockDuration: 15 * time.Minute,
		ResetWindow:  time.Hour,
	}
}

// LockStatus summarises a LockoutState at a point in time
type LockStatus string

const (
	LockStatusNone      LockStatus = "none"
	LockStatusTemporary LockStatus = "temporary"
	LockStatusPermanent LockStatus = "permanent"
)

// LockoutState tracks failed login attempts for a user.
// It is a value object: every transition returns a new state.
type LockoutState struct {
	FailedAttempts      int
	LockUntil           *time.Time
	PermanentlyLocked   bool
	LastFailedAttemptAt *time.Time
}

// Status reports the lock in effect at now
func (s LockoutState) Status(now time.Time) LockStatus {
	if s.PermanentlyLocked {
		return LockStatusPermanent
	}
	if s.LockUntil != nil && now.Before(*s.LockUntil) {
		return LockStatusTemporary
	}
	return LockStatusNone
}

// Check returns the error for a lock in effect at now, or nil
func (s LockoutState) Check(now time.Time) error {
	switch s.Status(now) {
	case LockStatusPermanent:
		return ErrAccountPermanentlyLocked
	case LockStatusTemporary:
		return ErrAccountLocked.WithDetails(map[string]interface{}{
			"lock_until":       s.LockUntil.UTC().Format(time.RFC3339),
			"retry_after_secs": int(s.LockUntil.Sub(now).Seconds()) + 1,
			"failed_attempts":  s.FailedAttempts,
		})
	}
	return nil
}

// ResetIfStale clears the counter and any expired temporary lock when the
// reset window has elapsed since the last failure. A permanent lock is never cleared here.
func (s LockoutState) ResetIfStale(now time.Time, policy LockoutPolicy) (LockoutState, bool) {
	if s.PermanentlyLocked || s.LastFailedAttemptAt == nil {
		return s, false
	}
	if now.Sub(*s.LastFailedAttemptAt) < policy.ResetWindow {
		return s, false
	}
	return LockoutState{}, true
}

// RecordFailure counts one more failed attempt. Reaching MaxAttempts sets a
// temporary lock and exceeding it sets a permanent lock.
func (s LockoutState) RecordFailure(now time.Time, policy LockoutPolicy) LockoutState {
	next := s
	next.FailedAttempts++
	at := now
	next.LastFailedAttemptAt = &at

	switch {
	case next.FailedAttempts > policy.MaxAttempts:
		next.PermanentlyLocked = true
		next.LockUntil = nil
	case next.FailedAttempts == policy.MaxAttempts:
		until := now.Add(policy.LockDuration)
		next.LockUntil = &until
	}
	return next
}

// RecordSuccess clears every lockout field
func (s LockoutState) RecordSuccess() LockoutState {
	return LockoutState{}
}

// IsZero reports whether no failure has been recorded
func (s LockoutState) IsZero() bool {
	return s.FailedAttempts == 0 && s.LockUntil == nil && !s.PermanentlyLocked && s.LastFailedAttemptAt == nil
}
