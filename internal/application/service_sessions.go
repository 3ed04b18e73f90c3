package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/domain"
)

// openSession force-closes any prior active session and opens the new one.
// Failures are logged and swallowed: session bookkeeping never blocks a login
// that already passed credential checks.
func (s *Service) openSession(ctx context.Context, user domain.User, ip, userAgent, deviceName, deviceOS string, now time.Time) uuid.UUID {
	session := domain.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		Username:     user.Username,
		LoginAt:      now,
		LastActiveAt: now,
		IPAddress:    ip,
		UserAgent:    userAgent,
		DeviceName:   deviceName,
		DeviceOS:     deviceOS,
		Status:       domain.SessionActive,
	}
	if err := s.sessions.Open(ctx, session); err != nil {
		slog.Default().WarnContext(ctx, "failed to open session",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "open_session",
			"outcome", "warning",
			"user_id", user.ID,
			"error", err,
		)
	}
	return session.ID
}

// Heartbeat is the liveness tick for the caller's session. The idle sweep
// runs first, so a session past the idle timeout expires rather than being
// resurrected by its own heartbeat. A forced-logout session is surfaced
// without a touch so the client can end itself.
func (s *Service) Heartbeat(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID) HeartbeatResult {
	now := s.nowFn()
	cutoff := now.Add(-s.cfg.SessionIdleTimeout)
	if expired, err := s.sessions.ExpireIdleBefore(ctx, cutoff); err != nil {
		slog.Default().WarnContext(ctx, "idle session sweep failed",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "heartbeat",
			"outcome", "warning",
			"error", err,
		)
	} else if expired > 0 {
		slog.Default().InfoContext(ctx, "idle sessions expired",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "heartbeat",
			"outcome", "success",
			"expired_count", expired,
		)
	}

	if sessionID != nil {
		status, err := s.sessions.Status(ctx, *sessionID, userID)
		if err == nil && status == domain.SessionForcedLogout {
			return HeartbeatResult{SessionStatus: domain.SessionForcedLogout}
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.Default().WarnContext(ctx, "session status check failed",
				"service", "auth-service",
				"module", "application",
				"layer", "application",
				"operation", "heartbeat",
				"outcome", "warning",
				"session_id", *sessionID,
				"error", err,
			)
		}
	}

	if err := s.sessions.Touch(ctx, userID, sessionID, now); err != nil {
		slog.Default().WarnContext(ctx, "session touch failed",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "heartbeat",
			"outcome", "warning",
			"user_id", userID,
			"error", err,
		)
	}
	return HeartbeatResult{SessionStatus: domain.SessionActive}
}
