package mysql

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	ID           uuid.UUID  `gorm:"column:id;type:char(36);primaryKey"`
	Username     string     `gorm:"column:username"`
	Email        string     `gorm:"column:email"`
	PasswordHash string     `gorm:"column:password_hash"`
	EmployeeID   string     `gorm:"column:employee_id"`
	Name         string     `gorm:"column:name"`
	NickName     string     `gorm:"column:nick_name"`
	Role         string     `gorm:"column:role"`
	Status       string     `gorm:"column:status"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at"`
}

func (userModel) TableName() string { return "users" }

type sessionModel struct {
	ID            uuid.UUID  `gorm:"column:id;type:char(36);primaryKey"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:char(36)"`
	Username      string     `gorm:"column:username"`
	LoginAt       time.Time  `gorm:"column:login_at"`
	LastActiveAt  time.Time  `gorm:"column:last_active_at"`
	LogoutAt      *time.Time `gorm:"column:logout_at"`
	IPAddress     *string    `gorm:"column:ip_address"`
	UserAgent     string     `gorm:"column:user_agent"`
	DeviceName    string     `gorm:"column:device_name"`
	DeviceOS      string     `gorm:"column:device_os"`
	SessionStatus string     `gorm:"column:session_status"`
}

func (sessionModel) TableName() string { return "user_sessions" }

type loginAttemptModel struct {
	ID            uuid.UUID  `gorm:"column:id;type:char(36);primaryKey"`
	UserID        *uuid.UUID `gorm:"column:user_id;type:char(36)"`
	Username      string     `gorm:"column:username"`
	Success       bool       `gorm:"column:success"`
	FailureReason *string    `gorm:"column:failure_reason"`
	IPAddress     *string    `gorm:"column:ip_address"`
	UserAgent     string     `gorm:"column:user_agent"`
	DeviceName    string     `gorm:"column:device_name"`
	DeviceOS      string     `gorm:"column:device_os"`
	GeoCity       *string    `gorm:"column:geo_city"`
	GeoCountry    *string    `gorm:"column:geo_country"`
	GeoLat        *float64   `gorm:"column:geo_lat"`
	GeoLon        *float64   `gorm:"column:geo_lon"`
	AttemptedAt   time.Time  `gorm:"column:attempted_at"`
}

func (loginAttemptModel) TableName() string { return "login_attempts" }

type notificationModel struct {
	ID                uuid.UUID  `gorm:"column:id;type:char(36);primaryKey"`
	UserID            uuid.UUID  `gorm:"column:user_id;type:char(36)"`
	Type              string     `gorm:"column:type"`
	Category          string     `gorm:"column:category"`
	Priority          string     `gorm:"column:priority"`
	Title             string     `gorm:"column:title"`
	Message           string     `gorm:"column:message"`
	RelatedUserID     *uuid.UUID `gorm:"column:related_user_id;type:char(36)"`
	RelatedEntityType string     `gorm:"column:related_entity_type"`
	IsRead            bool       `gorm:"column:is_read"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }
