package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"syscall"
	"time"

	"github.com/bizdesk/auth-service/internal/domain"
)

// userLookupAttempts bounds the connection-reset retry in Authenticate.
const userLookupAttempts = 3

// Authenticate verifies a bearer token and loads the live user behind it.
// Token validity is deliberately independent of session state: a superseded
// session's token keeps working until it expires, and clients learn about a
// forced logout through the heartbeat response instead.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.tokenSigner.ParseAndValidate(token)
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	for attempt := 1; ; attempt++ {
		user, err = s.users.GetByID(ctx, claims.UserID)
		if err == nil || !isConnectionReset(err) || attempt == userLookupAttempts {
			break
		}
		slog.Default().WarnContext(ctx, "user lookup retry after connection reset",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "authenticate",
			"outcome", "retry",
			"attempt", attempt,
			"user_id", claims.UserID,
		)
		pause := s.cfg.UserLookupRetryPause
		if pause <= 0 {
			pause = 100 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return domain.User{}, ctx.Err()
		case <-time.After(pause):
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
		}
		return domain.User{}, err
	}

	if user.Status != domain.UserStatusActive {
		return domain.User{}, domain.ErrAccountInactive
	}
	return user, nil
}

// RequireRole checks the authenticated user's role against an allow list.
func RequireRole(user domain.User, roles ...string) error {
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: insufficient permissions", domain.ErrForbidden)
}

// isConnectionReset matches the transient errors the bounded retry covers.
// Driver wrapping is inconsistent across MySQL client versions, so the string
// check backs up the errno comparison.
func isConnectionReset(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection reset")
}
