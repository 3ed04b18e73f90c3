package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/domain"
)

type Config struct {
	TokenTTL             time.Duration
	FailedLoginThreshold int
	LockoutWindow        time.Duration
	SessionIdleTimeout   time.Duration
	LoginRateLimit       int
	LoginRateWindow      time.Duration
	UserLookupRetryPause time.Duration
	InternalIPPrefixes   []string
}

type LoginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginResponse struct {
	User      UserProfile `json:"user"`
	Token     string      `json:"token"`
	SessionID uuid.UUID   `json:"sessionId"`
}

// UserProfile is the client-facing user snapshot. The password hash and soft
// delete bookkeeping never leave the service.
type UserProfile struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	EmployeeID  string     `json:"employeeId,omitempty"`
	Name        string     `json:"name,omitempty"`
	NickName    string     `json:"nickName,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type HeartbeatResult struct {
	SessionStatus domain.SessionStatus `json:"sessionStatus"`
}

type AttemptListQuery struct {
	Username string
	Success  *bool
	From     *time.Time
	To       *time.Time
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

type AttemptPage struct {
	Attempts []AttemptItem `json:"attempts"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
}

type AttemptItem struct {
	ID            uuid.UUID  `json:"id"`
	UserID        *uuid.UUID `json:"userId,omitempty"`
	Username      string     `json:"username"`
	Success       bool       `json:"success"`
	FailureReason string     `json:"failureReason,omitempty"`
	IPAddress     string     `json:"ipAddress"`
	UserAgent     string     `json:"userAgent,omitempty"`
	DeviceName    string     `json:"deviceName,omitempty"`
	DeviceOS      string     `json:"deviceOs,omitempty"`
	GeoCity       *string    `json:"geoCity,omitempty"`
	GeoCountry    *string    `json:"geoCountry,omitempty"`
	GeoLat        *float64   `json:"geoLat,omitempty"`
	GeoLon        *float64   `json:"geoLon,omitempty"`
	AttemptedAt   time.Time  `json:"attemptedAt"`
}

type BulkDeleteRequest struct {
	IDs        []uuid.UUID `json:"ids"`
	DeleteAll  bool        `json:"deleteAll"`
	BeforeDate *time.Time  `json:"beforeDate"`
}

type SessionHistoryGroup struct {
	Username string        `json:"username"`
	Sessions []SessionItem `json:"sessions"`
}

type SessionItem struct {
	ID           uuid.UUID            `json:"id"`
	LoginAt      time.Time            `json:"loginAt"`
	LastActiveAt time.Time            `json:"lastActiveAt"`
	LogoutAt     *time.Time           `json:"logoutAt,omitempty"`
	IPAddress    string               `json:"ipAddress"`
	DeviceName   string               `json:"deviceName,omitempty"`
	DeviceOS     string               `json:"deviceOs,omitempty"`
	Status       domain.SessionStatus `json:"status"`
}

func toUserProfile(u domain.User) UserProfile {
	return UserProfile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		EmployeeID:  u.EmployeeID,
		Name:        u.Name,
		NickName:    u.NickName,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
	}
}

func toAttemptItem(a domain.LoginAttempt) AttemptItem {
	return AttemptItem{
		ID:            a.ID,
		UserID:        a.UserID,
		Username:      a.Username,
		Success:       a.Success,
		FailureReason: a.FailureReason,
		IPAddress:     a.IPAddress,
		UserAgent:     a.UserAgent,
		DeviceName:    a.DeviceName,
		DeviceOS:      a.DeviceOS,
		GeoCity:       a.GeoCity,
		GeoCountry:    a.GeoCountry,
		GeoLat:        a.GeoLat,
		GeoLon:        a.GeoLon,
		AttemptedAt:   a.AttemptedAt,
	}
}

func toSessionItem(s domain.Session) SessionItem {
	return SessionItem{
		ID:           s.ID,
		LoginAt:      s.LoginAt,
		LastActiveAt: s.LastActiveAt,
		LogoutAt:     s.LogoutAt,
		IPAddress:    s.IPAddress,
		DeviceName:   s.DeviceName,
		DeviceOS:     s.DeviceOS,
		Status:       s.Status,
	}
}
