package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizdesk/auth-service/internal/domain"
)

type sessionRepository struct {
	db *gorm.DB
}

// Open force-closes any active session for the user and inserts the new row
// inside one transaction so two concurrent logins cannot both end up active.
func (r *sessionRepository) Open(ctx context.Context, session domain.Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sessionModel{}).
			Where("user_id = ?", session.UserID).
			Where("session_status = ?", string(domain.SessionActive)).
			Updates(map[string]any{
				"session_status": string(domain.SessionForcedLogout),
				"logout_at":      session.LoginAt,
			}).Error; err != nil {
			return err
		}
		rec := toSessionModel(session)
		return tx.Create(&rec).Error
	})
}

// Close marks a session logged out. With a session id the update is owner
// checked; without one the latest active session for the user is closed.
func (r *sessionRepository) Close(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, at time.Time) error {
	query := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("user_id = ?", userID).
		Where("session_status = ?", string(domain.SessionActive))
	if sessionID != nil {
		query = query.Where("id = ?", *sessionID)
	} else {
		query = query.Order("login_at DESC").Limit(1)
	}
	return query.Updates(map[string]any{
		"session_status": string(domain.SessionLoggedOut),
		"logout_at":      at,
	}).Error
}

func (r *sessionRepository) Status(ctx context.Context, sessionID, userID uuid.UUID) (domain.SessionStatus, error) {
	var rec sessionModel
	if err := r.db.WithContext(ctx).
		Select("session_status").
		Where("id = ?", sessionID).
		Where("user_id = ?", userID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return domain.SessionStatus(rec.SessionStatus), nil
}

// Touch bumps last_active_at on the caller's active session. Only active rows
// qualify, so touching an expired or forced-out session is a no-op.
func (r *sessionRepository) Touch(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, at time.Time) error {
	query := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("user_id = ?", userID).
		Where("session_status = ?", string(domain.SessionActive))
	if sessionID != nil {
		query = query.Where("id = ?", *sessionID)
	} else {
		query = query.Order("login_at DESC").Limit(1)
	}
	return query.Update("last_active_at", at).Error
}

// ExpireIdleBefore is the lazy sweep: active sessions whose last heartbeat is
// older than the cutoff flip to expired, with logout_at backdated to the last
// activity rather than the sweep time.
func (r *sessionRepository) ExpireIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_status = ?", string(domain.SessionActive)).
		Where("last_active_at < ?", cutoff).
		Updates(map[string]any{
			"session_status": string(domain.SessionExpired),
			"logout_at":      gorm.Expr("last_active_at"),
		})
	return res.RowsAffected, res.Error
}
