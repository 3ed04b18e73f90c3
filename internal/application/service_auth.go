package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/domain"
	"github.com/bizdesk/auth-service/internal/ports"
)

// Login validates credentials, enforces the per-IP rate limit and the
// per-account lockout, then opens a session and signs a bearer token. Every
// attempt, failed or successful, lands in the ledger before the response.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	deviceName, deviceOS := deviceFromUserAgent(req.UserAgent)

	username, err := domain.ValidateUsername(req.Username)
	if err != nil {
		s.recordAttempt(ctx, nil, req.Username, req, false, domain.FailureInvalidUsernameFormat)
		return LoginResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		s.recordAttempt(ctx, nil, username, req, false, domain.FailureInvalidPasswordFormat)
		return LoginResponse{}, err
	}

	if err := s.enforceLoginRateLimit(ctx, req.IPAddress); err != nil {
		return LoginResponse{}, err
	}

	lockout := s.CheckLockout(ctx, username)
	if lockout.Locked {
		s.recordAttempt(ctx, nil, username, req, false, domain.FailureAccountLocked)
		slog.Default().WarnContext(ctx, "account lockout active",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "login",
			"outcome", "blocked",
			"username", username,
			"unlock_at", lockout.UnlockAt,
		)
		return LoginResponse{}, &domain.LockedError{
			UnlockAt:       *lockout.UnlockAt,
			FailedAttempts: lockout.FailedAttempts,
		}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.recordAttempt(ctx, nil, username, req, false, domain.FailureUserNotFound)
		return LoginResponse{}, domain.ErrInvalidCredentials
	}
	if user.Status != domain.UserStatusActive {
		s.recordAttempt(ctx, &user.ID, username, req, false, domain.FailureAccountInactive)
		return LoginResponse{}, domain.ErrAccountInactive
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordAttempt(ctx, &user.ID, username, req, false, domain.FailureInvalidPassword)
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	now := s.nowFn()
	s.recordAttempt(ctx, &user.ID, username, req, true, "")
	s.releaseLoginRateLimit(ctx, req.IPAddress)

	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		slog.Default().WarnContext(ctx, "failed to update last login",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "login",
			"outcome", "warning",
			"user_id", user.ID,
			"error", err,
		)
	} else {
		user.LastLoginAt = &now
	}

	sessionID := s.openSession(ctx, user, req.IPAddress, req.UserAgent, deviceName, deviceOS, now)

	token, err := s.tokenSigner.Sign(ports.AuthClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return LoginResponse{
		User:      toUserProfile(user),
		Token:     token,
		SessionID: sessionID,
	}, nil
}

// Logout closes the caller's session. Session bookkeeping is best-effort by
// contract: a missing or already-closed session still yields success.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID) {
	if err := s.sessions.Close(ctx, userID, sessionID, s.nowFn()); err != nil {
		slog.Default().WarnContext(ctx, "failed to close session",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "logout",
			"outcome", "warning",
			"user_id", userID,
			"error", err,
		)
	}
}

// ChangePassword verifies the current password before rotating the hash, then
// fans out one notification row per admin in the background.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" {
		return fmt.Errorf("%w: current password is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateNewPassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return domain.ErrPasswordMismatch
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, passwordHash, s.nowFn()); err != nil {
		return err
	}

	go s.notifyAdminsPasswordChange(user)
	return nil
}

// notifyAdminsPasswordChange writes the fan-out rows on a detached context so
// a slow or failing insert cannot affect the password change response.
func (s *Service) notifyAdminsPasswordChange(user domain.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		slog.Default().WarnContext(ctx, "failed to list admins for notification",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "notify_password_change",
			"outcome", "warning",
			"error", err,
		)
		return
	}

	now := s.nowFn()
	displayName := user.Name
	if displayName == "" {
		displayName = user.Username
	}
	for _, admin := range admins {
		if admin.ID == user.ID {
			continue
		}
		relatedID := user.ID
		if err := s.notifications.Insert(ctx, domain.Notification{
			ID:                uuid.New(),
			UserID:            admin.ID,
			Type:              "password_change",
			Category:          "user_management",
			Priority:          "medium",
			Title:             "Password changed",
			Message:           fmt.Sprintf("%s changed their password", displayName),
			RelatedUserID:     &relatedID,
			RelatedEntityType: "user",
			CreatedAt:         now,
		}); err != nil {
			slog.Default().WarnContext(ctx, "failed to insert password change notification",
				"service", "auth-service",
				"module", "application",
				"layer", "application",
				"operation", "notify_password_change",
				"outcome", "warning",
				"admin_id", admin.ID,
				"error", err,
			)
		}
	}
}
