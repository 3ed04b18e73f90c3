package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/domain"
)

// UserRepository defines the read/update surface over the shared users table.
// Lookups must exclude soft-deleted rows; username matching is exact.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, updatedAt time.Time) error
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

// SessionRegistry manages persistent session lifecycle.
// Open must force-close any prior active session for the user and insert the
// new row atomically so at most one active session exists per user.
type SessionRegistry interface {
	Open(ctx context.Context, session domain.Session) error
	Close(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, at time.Time) error
	Status(ctx context.Context, sessionID, userID uuid.UUID) (domain.SessionStatus, error)
	Touch(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, at time.Time) error
	ExpireIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AttemptFilter narrows and pages ledger listings. SortBy must be one of the
// columns the adapter whitelists; anything else falls back to attempted_at.
type AttemptFilter struct {
	Username string
	Success  *bool
	From     *time.Time
	To       *time.Time
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// LoginAttemptLedger stores login outcomes used by the lockout policy and the
// activity endpoints. The login flow only ever inserts; deletes exist for
// admin housekeeping.
type LoginAttemptLedger interface {
	Insert(ctx context.Context, attempt domain.LoginAttempt) error
	FailureWindow(ctx context.Context, username string, since time.Time) (int, *time.Time, error)
	AttachGeo(ctx context.Context, attemptID uuid.UUID, loc GeoLocation) error
	List(ctx context.Context, filter AttemptFilter) ([]domain.LoginAttempt, int64, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	DeleteBefore(ctx context.Context, before *time.Time) (int64, error)
}

// ActivityStats is the headline block of the activity dashboard.
type ActivityStats struct {
	LoginsToday       int64
	FailedToday       int64
	OnlineUsers       int64
	AvgSessionMinutes float64
	TotalAttempts     int64
	UniqueUsersToday  int64
}

// OnlineUser is one currently-active session joined with its user.
type OnlineUser struct {
	UserID          uuid.UUID
	Username        string
	Name            string
	NickName        string
	Role            string
	SessionID       uuid.UUID
	LoginAt         time.Time
	LastActiveAt    time.Time
	IPAddress       string
	DeviceName      string
	DeviceOS        string
	DurationMinutes int64
}

// DailyLoginCount is one day of the login chart series.
type DailyLoginCount struct {
	Day     string
	Success int64
	Failure int64
}

// UserDailyUsage aggregates one user's sessions across a single day.
type UserDailyUsage struct {
	UserID       uuid.UUID
	Username     string
	Name         string
	SessionCount int64
	TotalMinutes int64
	FirstLoginAt *time.Time
	LastLogoutAt *time.Time
}

// ActivityRepository serves the read-only reporting queries. It spans both
// the ledger and the session tables, which is why it is separate from the
// write-side repositories.
type ActivityRepository interface {
	Stats(ctx context.Context, dayStart, onlineSince time.Time) (ActivityStats, error)
	OnlineUsers(ctx context.Context, activeSince time.Time) ([]OnlineUser, error)
	DailyCounts(ctx context.Context, from time.Time) ([]DailyLoginCount, error)
	DailyUsage(ctx context.Context, dayStart, dayEnd time.Time) ([]UserDailyUsage, error)
	SessionsBetween(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.Session, error)
	ExternalIPAttempts(ctx context.Context, internalPrefixes []string, from *time.Time, limit int) ([]domain.LoginAttempt, error)
}

// NotificationStore is insert-only; delivery belongs to another system.
type NotificationStore interface {
	Insert(ctx context.Context, notification domain.Notification) error
}
