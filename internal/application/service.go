package application

import (
	"time"

	"github.com/bizdesk/auth-service/internal/domain"
	"github.com/bizdesk/auth-service/internal/ports"
)

type Service struct {
	cfg           Config
	users         ports.UserRepository
	sessions      ports.SessionRegistry
	loginAttempts ports.LoginAttemptLedger
	activity      ports.ActivityRepository
	notifications ports.NotificationStore
	rateLimiter   ports.RateLimiter
	geo           ports.GeoLocator
	hasher        ports.PasswordHasher
	tokenSigner   ports.TokenSigner
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Users         ports.UserRepository
	Sessions      ports.SessionRegistry
	LoginAttempts ports.LoginAttemptLedger
	Activity      ports.ActivityRepository
	Notifications ports.NotificationStore
	RateLimiter   ports.RateLimiter
	Geo           ports.GeoLocator
	Hasher        ports.PasswordHasher
	TokenSigner   ports.TokenSigner
}

// Profile maps a user aggregate onto its client-facing snapshot.
func (s *Service) Profile(user domain.User) UserProfile {
	return toUserProfile(user)
}

func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:           deps.Config,
		users:         deps.Users,
		sessions:      deps.Sessions,
		loginAttempts: deps.LoginAttempts,
		activity:      deps.Activity,
		notifications: deps.Notifications,
		rateLimiter:   deps.RateLimiter,
		geo:           deps.Geo,
		hasher:        deps.Hasher,
		tokenSigner:   deps.TokenSigner,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}
