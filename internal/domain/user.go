package domain

import (
	"time"

	"github.com/google/uuid"
)

// User statuses as stored in the users table.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is the account identity this service authenticates against.
// The users table is shared with the wider back office; this service reads it
// and only writes last_login_at and password_hash.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	EmployeeID   string
	Name         string
	NickName     string
	Role         string
	Status       string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// SessionStatus is the lifecycle state of a login session.
type SessionStatus string

const (
	SessionActive       SessionStatus = "active"
	SessionLoggedOut    SessionStatus = "logged_out"
	SessionForcedLogout SessionStatus = "forced_logout"
	SessionExpired      SessionStatus = "expired"
)

// Session models one login session. Only one session per user may be active;
// opening a new one force-closes the previous.
type Session struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Username     string
	LoginAt      time.Time
	LastActiveAt time.Time
	LogoutAt     *time.Time
	IPAddress    string
	UserAgent    string
	DeviceName   string
	DeviceOS     string
	Status       SessionStatus
}

// Failure reasons recorded on unsuccessful login attempts.
const (
	FailureInvalidUsernameFormat = "invalid_username_format"
	FailureInvalidPasswordFormat = "invalid_password_format"
	FailureAccountLocked         = "account_locked"
	FailureUserNotFound          = "user_not_found"
	FailureAccountInactive       = "account_inactive"
	FailureInvalidPassword       = "invalid_password"
)

// LoginAttempt is one row of the append-only login ledger. Geo fields are
// filled in after the fact by the asynchronous enrichment task and stay nil
// for private addresses or failed lookups.
type LoginAttempt struct {
	ID            uuid.UUID
	UserID        *uuid.UUID
	Username      string
	Success       bool
	FailureReason string
	IPAddress     string
	UserAgent     string
	DeviceName    string
	DeviceOS      string
	GeoCity       *string
	GeoCountry    *string
	GeoLat        *float64
	GeoLon        *float64
	AttemptedAt   time.Time
}

// LockoutStatus is the result of evaluating the lockout policy over the
// ledger. UnlockAt is set only while locked.
type LockoutStatus struct {
	Locked         bool
	FailedAttempts int
	UnlockAt       *time.Time
}

// Notification is the password-change fan-out record written for each admin.
// This service only inserts rows; delivery belongs to another system.
type Notification struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Type              string
	Category          string
	Priority          string
	Title             string
	Message           string
	RelatedUserID     *uuid.UUID
	RelatedEntityType string
	IsRead            bool
	CreatedAt         time.Time
}
