package mysql

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/domain"
)

func toDomainUser(row userModel) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		EmployeeID:   row.EmployeeID,
		Name:         row.Name,
		NickName:     row.NickName,
		Role:         row.Role,
		Status:       row.Status,
		LastLoginAt:  row.LastLoginAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		DeletedAt:    row.DeletedAt,
	}
}

func toDomainSession(row sessionModel) domain.Session {
	return domain.Session{
		ID:           row.ID,
		UserID:       row.UserID,
		Username:     row.Username,
		LoginAt:      row.LoginAt,
		LastActiveAt: row.LastActiveAt,
		LogoutAt:     row.LogoutAt,
		IPAddress:    stringOrEmpty(row.IPAddress),
		UserAgent:    row.UserAgent,
		DeviceName:   row.DeviceName,
		DeviceOS:     row.DeviceOS,
		Status:       domain.SessionStatus(row.SessionStatus),
	}
}

func toSessionModel(s domain.Session) sessionModel {
	return sessionModel{
		ID:            s.ID,
		UserID:        s.UserID,
		Username:      s.Username,
		LoginAt:       s.LoginAt,
		LastActiveAt:  s.LastActiveAt,
		LogoutAt:      s.LogoutAt,
		IPAddress:     nullableString(s.IPAddress),
		UserAgent:     s.UserAgent,
		DeviceName:    s.DeviceName,
		DeviceOS:      s.DeviceOS,
		SessionStatus: string(s.Status),
	}
}

func toDomainLoginAttempt(row loginAttemptModel) domain.LoginAttempt {
	return domain.LoginAttempt{
		ID:            row.ID,
		UserID:        row.UserID,
		Username:      row.Username,
		Success:       row.Success,
		FailureReason: stringOrEmpty(row.FailureReason),
		IPAddress:     stringOrEmpty(row.IPAddress),
		UserAgent:     row.UserAgent,
		DeviceName:    row.DeviceName,
		DeviceOS:      row.DeviceOS,
		GeoCity:       row.GeoCity,
		GeoCountry:    row.GeoCountry,
		GeoLat:        row.GeoLat,
		GeoLon:        row.GeoLon,
		AttemptedAt:   row.AttemptedAt,
	}
}

func toLoginAttemptModel(a domain.LoginAttempt) loginAttemptModel {
	return loginAttemptModel{
		ID:            a.ID,
		UserID:        a.UserID,
		Username:      a.Username,
		Success:       a.Success,
		FailureReason: nullableString(a.FailureReason),
		IPAddress:     nullableString(a.IPAddress),
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

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// parseUUID tolerates raw-scanned id columns; aggregates join on ids the
// schema already constrains, so a parse failure only zeroes the field.
func parseUUID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}
