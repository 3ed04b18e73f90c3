package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bizdesk/auth-service/internal/domain"
	"github.com/bizdesk/auth-service/internal/ports"
)

// activityRepository serves the reporting queries. It reads across the ledger
// and the session tables, so it owns its own raw aggregates instead of going
// through the write-side repositories.
type activityRepository struct {
	db *gorm.DB
}

func (r *activityRepository) Stats(ctx context.Context, dayStart, onlineSince time.Time) (ports.ActivityStats, error) {
	var stats ports.ActivityStats

	var attemptRow struct {
		LoginsToday      int64
		FailedToday      int64
		TotalAttempts    int64
		UniqueUsersToday int64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN success = 1 AND attempted_at >= ? THEN 1 ELSE 0 END), 0) AS logins_today,
			COALESCE(SUM(CASE WHEN success = 0 AND attempted_at >= ? THEN 1 ELSE 0 END), 0) AS failed_today,
			COUNT(*) AS total_attempts,
			COUNT(DISTINCT CASE WHEN success = 1 AND attempted_at >= ? THEN username END) AS unique_users_today
		FROM login_attempts`,
		dayStart, dayStart, dayStart,
	).Scan(&attemptRow).Error; err != nil {
		return ports.ActivityStats{}, err
	}
	stats.LoginsToday = attemptRow.LoginsToday
	stats.FailedToday = attemptRow.FailedToday
	stats.TotalAttempts = attemptRow.TotalAttempts
	stats.UniqueUsersToday = attemptRow.UniqueUsersToday

	var sessionRow struct {
		OnlineUsers       int64
		AvgSessionMinutes float64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT CASE WHEN session_status = 'active' AND last_active_at >= ? THEN user_id END) AS online_users,
			COALESCE(AVG(TIMESTAMPDIFF(MINUTE, login_at, COALESCE(logout_at, last_active_at))), 0) AS avg_session_minutes
		FROM user_sessions
		WHERE login_at >= ?`,
		onlineSince, dayStart,
	).Scan(&sessionRow).Error; err != nil {
		return ports.ActivityStats{}, err
	}
	stats.OnlineUsers = sessionRow.OnlineUsers
	stats.AvgSessionMinutes = sessionRow.AvgSessionMinutes

	return stats, nil
}

func (r *activityRepository) OnlineUsers(ctx context.Context, activeSince time.Time) ([]ports.OnlineUser, error) {
	var rows []struct {
		UserID       string
		Username     string
		Name         string
		NickName     string
		Role         string
		SessionID    string
		LoginAt      time.Time
		LastActiveAt time.Time
		IPAddress    *string
		DeviceName   string
		DeviceOS     string
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id AS user_id, u.username, u.name, u.nick_name, u.role,
			s.id AS session_id, s.login_at, s.last_active_at, s.ip_address,
			s.device_name, s.device_os
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id AND u.deleted_at IS NULL
		WHERE s.session_status = 'active' AND s.last_active_at >= ?
		ORDER BY s.last_active_at DESC`,
		activeSince,
	).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]ports.OnlineUser, 0, len(rows))
	for _, row := range rows {
		item := ports.OnlineUser{
			Username:        row.Username,
			Name:            row.Name,
			NickName:        row.NickName,
			Role:            row.Role,
			LoginAt:         row.LoginAt,
			LastActiveAt:    row.LastActiveAt,
			IPAddress:       stringOrEmpty(row.IPAddress),
			DeviceName:      row.DeviceName,
			DeviceOS:        row.DeviceOS,
			DurationMinutes: int64(row.LastActiveAt.Sub(row.LoginAt).Minutes()),
		}
		item.UserID, _ = parseUUID(row.UserID)
		item.SessionID, _ = parseUUID(row.SessionID)
		result = append(result, item)
	}
	return result, nil
}

func (r *activityRepository) DailyCounts(ctx context.Context, from time.Time) ([]ports.DailyLoginCount, error) {
	var rows []struct {
		Day     string
		Success int64
		Failure int64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE_FORMAT(attempted_at, '%Y-%m-%d') AS day,
			COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0) AS success,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) AS failure
		FROM login_attempts
		WHERE attempted_at >= ?
		GROUP BY day
		ORDER BY day ASC`,
		from,
	).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]ports.DailyLoginCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, ports.DailyLoginCount{Day: row.Day, Success: row.Success, Failure: row.Failure})
	}
	return result, nil
}

func (r *activityRepository) DailyUsage(ctx context.Context, dayStart, dayEnd time.Time) ([]ports.UserDailyUsage, error) {
	var rows []struct {
		UserID       string
		Username     string
		Name         string
		SessionCount int64
		TotalMinutes int64
		FirstLoginAt *time.Time
		LastLogoutAt *time.Time
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id AS user_id, u.username, u.name,
			COUNT(s.id) AS session_count,
			COALESCE(SUM(TIMESTAMPDIFF(MINUTE, s.login_at, COALESCE(s.logout_at, s.last_active_at))), 0) AS total_minutes,
			MIN(s.login_at) AS first_login_at,
			MAX(s.logout_at) AS last_logout_at
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.login_at >= ? AND s.login_at < ?
		GROUP BY u.id, u.username, u.name
		ORDER BY total_minutes DESC`,
		dayStart, dayEnd,
	).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]ports.UserDailyUsage, 0, len(rows))
	for _, row := range rows {
		item := ports.UserDailyUsage{
			Username:     row.Username,
			Name:         row.Name,
			SessionCount: row.SessionCount,
			TotalMinutes: row.TotalMinutes,
			FirstLoginAt: row.FirstLoginAt,
			LastLogoutAt: row.LastLogoutAt,
		}
		item.UserID, _ = parseUUID(row.UserID)
		result = append(result, item)
	}
	return result, nil
}

func (r *activityRepository) SessionsBetween(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.Session, error) {
	var rows []sessionModel
	if err := r.db.WithContext(ctx).
		Where("login_at >= ?", dayStart).
		Where("login_at < ?", dayEnd).
		Order("username ASC, login_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Session, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainSession(row))
	}
	return result, nil
}

func (r *activityRepository) ExternalIPAttempts(ctx context.Context, internalPrefixes []string, from *time.Time, limit int) ([]domain.LoginAttempt, error) {
	query := r.db.WithContext(ctx).
		Model(&loginAttemptModel{}).
		Where("ip_address IS NOT NULL")
	for _, prefix := range internalPrefixes {
		query = query.Where("ip_address NOT LIKE ?", prefix+"%")
	}
	if from != nil {
		query = query.Where("attempted_at >= ?", *from)
	}
	if limit <= 0 {
		limit = 500
	}

	var rows []loginAttemptModel
	if err := query.Order("attempted_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.LoginAttempt, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainLoginAttempt(row))
	}
	return result, nil
}
