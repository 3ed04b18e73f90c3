package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/bizdesk/auth-service/internal/domain"
)

type notificationRepository struct {
	db *gorm.DB
}

func (r *notificationRepository) Insert(ctx context.Context, notification domain.Notification) error {
	rec := notificationModel{
		ID:                notification.ID,
		UserID:            notification.UserID,
		Type:              notification.Type,
		Category:          notification.Category,
		Priority:          notification.Priority,
		Title:             notification.Title,
		Message:           notification.Message,
		RelatedUserID:     notification.RelatedUserID,
		RelatedEntityType: notification.RelatedEntityType,
		IsRead:            notification.IsRead,
		CreatedAt:         notification.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}
