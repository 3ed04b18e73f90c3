package application

import (
	"context"
	"log/slog"

	"github.com/bizdesk/auth-service/internal/domain"
)

// CheckLockout evaluates the lockout policy over the ledger: once the failure
// count inside the trailing window reaches the threshold, the account stays
// locked until the last failure plus the window. A ledger query failure fails
// open so a storage outage cannot lock everyone out.
func (s *Service) CheckLockout(ctx context.Context, username string) domain.LockoutStatus {
	now := s.nowFn()
	since := now.Add(-s.cfg.LockoutWindow)

	count, lastFailure, err := s.loginAttempts.FailureWindow(ctx, username, since)
	if err != nil {
		slog.Default().WarnContext(ctx, "lockout check failed, allowing login",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "check_lockout",
			"outcome", "fail_open",
			"username", username,
			"error", err,
		)
		return domain.LockoutStatus{}
	}

	if count >= s.cfg.FailedLoginThreshold && lastFailure != nil {
		unlockAt := lastFailure.Add(s.cfg.LockoutWindow)
		if now.Before(unlockAt) {
			return domain.LockoutStatus{
				Locked:         true,
				FailedAttempts: count,
				UnlockAt:       &unlockAt,
			}
		}
	}
	return domain.LockoutStatus{FailedAttempts: count}
}
