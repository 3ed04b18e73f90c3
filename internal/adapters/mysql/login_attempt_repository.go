package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizdesk/auth-service/internal/domain"
	"github.com/bizdesk/auth-service/internal/ports"
)

type loginAttemptRepository struct {
	db *gorm.DB
}

// attemptSortColumns whitelists the sortable ledger columns. Anything else
// falls back to attempted_at.
var attemptSortColumns = map[string]string{
	"attempted_at": "attempted_at",
	"username":     "username",
	"ip_address":   "ip_address",
	"success":      "success",
}

func (r *loginAttemptRepository) Insert(ctx context.Context, attempt domain.LoginAttempt) error {
	rec := toLoginAttemptModel(attempt)
	return r.db.WithContext(ctx).Create(&rec).Error
}

// FailureWindow returns the failed-attempt count and the most recent failure
// time for a username inside the trailing window.
func (r *loginAttemptRepository) FailureWindow(ctx context.Context, username string, since time.Time) (int, *time.Time, error) {
	var row struct {
		FailedCount   int64
		LastFailureAt *time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&loginAttemptModel{}).
		Select("COUNT(*) AS failed_count, MAX(attempted_at) AS last_failure_at").
		Where("username = ?", username).
		Where("success = ?", false).
		Where("attempted_at >= ?", since).
		Take(&row).Error
	if err != nil {
		return 0, nil, err
	}
	return int(row.FailedCount), row.LastFailureAt, nil
}

// AttachGeo patches the geo columns of an already-written row. Enrichment
// never overwrites: a row that somehow has a city keeps it.
func (r *loginAttemptRepository) AttachGeo(ctx context.Context, attemptID uuid.UUID, loc ports.GeoLocation) error {
	return r.db.WithContext(ctx).
		Model(&loginAttemptModel{}).
		Where("id = ?", attemptID).
		Where("geo_city IS NULL").
		Updates(map[string]any{
			"geo_city":    loc.City,
			"geo_country": loc.Country,
			"geo_lat":     loc.Lat,
			"geo_lon":     loc.Lon,
		}).Error
}

func (r *loginAttemptRepository) List(ctx context.Context, filter ports.AttemptFilter) ([]domain.LoginAttempt, int64, error) {
	query := r.db.WithContext(ctx).Model(&loginAttemptModel{})
	if filter.Username != "" {
		query = query.Where("username LIKE ?", "%"+filter.Username+"%")
	}
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}
	if filter.From != nil {
		query = query.Where("attempted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("attempted_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := attemptSortColumns[filter.SortBy]
	if !ok {
		column = "attempted_at"
	}
	direction := " ASC"
	if filter.SortDesc {
		direction = " DESC"
	}

	var rows []loginAttemptModel
	if err := query.
		Order(column + direction).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	result := make([]domain.LoginAttempt, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainLoginAttempt(row))
	}
	return result, total, nil
}

func (r *loginAttemptRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&loginAttemptModel{})
	return res.RowsAffected, res.Error
}

func (r *loginAttemptRepository) DeleteBefore(ctx context.Context, before *time.Time) (int64, error) {
	query := r.db.WithContext(ctx)
	if before != nil {
		query = query.Where("attempted_at < ?", *before)
	} else {
		query = query.Where("1 = 1")
	}
	res := query.Delete(&loginAttemptModel{})
	return res.RowsAffected, res.Error
}
