package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether the username or the password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked signals temporary lockout after repeated failed attempts.
	// Handlers should unwrap a LockedError to expose the unlock time.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountInactive is returned for disabled accounts on login and on guard checks.
	ErrAccountInactive = errors.New("account inactive")
	// ErrPasswordMismatch is the change-password variant of a credential failure.
	// It is separate because its response names the current password explicitly.
	ErrPasswordMismatch = errors.New("current password incorrect")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrRateLimited      = errors.New("rate limited")
)

// LockedError carries the lockout details alongside the ErrAccountLocked
// sentinel so handlers can report when the account unlocks.
type LockedError struct {
	UnlockAt       time.Time
	FailedAttempts int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s after %d failed attempts",
		e.UnlockAt.Format(time.RFC3339), e.FailedAttempts)
}

func (e *LockedError) Unwrap() error { return ErrAccountLocked }
