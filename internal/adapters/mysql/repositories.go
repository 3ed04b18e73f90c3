package mysql

import (
	"gorm.io/gorm"

	"github.com/bizdesk/auth-service/internal/ports"
)

type Repositories struct {
	Users         ports.UserRepository
	Sessions      ports.SessionRegistry
	LoginAttempts ports.LoginAttemptLedger
	Activity      ports.ActivityRepository
	Notifications ports.NotificationStore
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         &userRepository{db: db},
		Sessions:      &sessionRepository{db: db},
		LoginAttempts: &loginAttemptRepository{db: db},
		Activity:      &activityRepository{db: db},
		Notifications: &notificationRepository{db: db},
	}
}
