package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/domain"
	"github.com/bizdesk/auth-service/internal/ports"
)

type fixture struct {
	service       *Service
	users         *fakeUsers
	sessions      *fakeSessions
	attempts      *fakeLedger
	activity      *fakeActivity
	notifications *fakeNotifications
	limiter       *fakeLimiter
	geo           *fakeGeo
	signer        *fakeSigner

	mu  sync.Mutex
	now time.Time
}

func defaultTestConfig() Config {
	return Config{
		TokenTTL:             24 * time.Hour,
		FailedLoginThreshold: 5,
		LockoutWindow:        30 * time.Minute,
		SessionIdleTimeout:   30 * time.Minute,
		LoginRateLimit:       5,
		LoginRateWindow:      15 * time.Minute,
		UserLookupRetryPause: time.Millisecond,
		InternalIPPrefixes:   []string{"10.", "192.168.", "127."},
	}
}

func newFixture() *fixture {
	return newFixtureWithConfig(defaultTestConfig())
}

func newFixtureWithConfig(cfg Config) *fixture {
	f := &fixture{
		users:         &fakeUsers{byID: map[uuid.UUID]domain.User{}},
		sessions:      &fakeSessions{byID: map[uuid.UUID]domain.Session{}},
		attempts:      &fakeLedger{geoAttached: make(chan uuid.UUID, 8)},
		activity:      &fakeActivity{},
		notifications: &fakeNotifications{inserted: make(chan domain.Notification, 8)},
		limiter:       &fakeLimiter{counts: map[string]int{}},
		geo:           &fakeGeo{calls: make(chan string, 8)},
		signer:        &fakeSigner{tokens: map[string]ports.AuthClaims{}},
		now:           time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}

	f.service = NewService(Dependencies{
		Config:        cfg,
		Users:         f.users,
		Sessions:      f.sessions,
		LoginAttempts: f.attempts,
		Activity:      f.activity,
		Notifications: f.notifications,
		RateLimiter:   f.limiter,
		Geo:           f.geo,
		Hasher:        &fakeHasher{},
		TokenSigner:   f.signer,
	})
	f.service.nowFn = func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.now
	}
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fixture) setNow(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func (f *fixture) addUser(username, password, role, status string) domain.User {
	user := domain.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         username,
		Role:         role,
		Status:       status,
		PasswordHash: "hashed:" + password,
	}
	f.users.mu.Lock()
	f.users.byID[user.ID] = user
	f.users.mu.Unlock()
	return user
}

type fakeUsers struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]domain.User
	getByIDErrs []error
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username && u.DeletedAt == nil {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.getByIDErrs) > 0 {
		err := f.getByIDErrs[0]
		f.getByIDErrs = f.getByIDErrs[1:]
		if err != nil {
			return domain.User{}, err
		}
	}
	u, ok := f.byID[userID]
	if !ok || u.DeletedAt != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLoginAt = &at
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) ListAdmins(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admins := make([]domain.User, 0)
	for _, u := range f.byID {
		if u.Role == "admin" && u.Status == domain.UserStatusActive && u.DeletedAt == nil {
			admins = append(admins, u)
		}
	}
	return admins, nil
}

func (f *fakeUsers) get(userID uuid.UUID) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[userID]
}

type fakeSessions struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]domain.Session
	openErr error
}

func (f *fakeSessions) Open(_ context.Context, session domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	for id, existing := range f.byID {
		if existing.UserID == session.UserID && existing.Status == domain.SessionActive {
			logoutAt := session.LoginAt
			existing.Status = domain.SessionForcedLogout
			existing.LogoutAt = &logoutAt
			f.byID[id] = existing
		}
	}
	f.byID[session.ID] = session
	return nil
}

func (f *fakeSessions) Close(_ context.Context, userID uuid.UUID, sessionID *uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sessionID != nil {
		s, ok := f.byID[*sessionID]
		if !ok || s.UserID != userID {
			return domain.ErrNotFound
		}
		s.Status = domain.SessionLoggedOut
		s.LogoutAt = &at
		f.byID[*sessionID] = s
		return nil
	}
	for id, s := range f.byID {
		if s.UserID == userID && s.Status == domain.SessionActive {
			s.Status = domain.SessionLoggedOut
			s.LogoutAt = &at
			f.byID[id] = s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSessions) Status(_ context.Context, sessionID, userID uuid.UUID) (domain.SessionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[sessionID]
	if !ok || s.UserID != userID {
		return "", domain.ErrNotFound
	}
	return s.Status, nil
}

func (f *fakeSessions) Touch(_ context.Context, userID uuid.UUID, sessionID *uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.byID {
		if s.UserID != userID || s.Status != domain.SessionActive {
			continue
		}
		if sessionID != nil && id != *sessionID {
			continue
		}
		s.LastActiveAt = at
		f.byID[id] = s
	}
	return nil
}

func (f *fakeSessions) ExpireIdleBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var expired int64
	for id, s := range f.byID {
		if s.Status == domain.SessionActive && s.LastActiveAt.Before(cutoff) {
			logoutAt := s.LastActiveAt
			s.Status = domain.SessionExpired
			s.LogoutAt = &logoutAt
			f.byID[id] = s
			expired++
		}
	}
	return expired, nil
}

func (f *fakeSessions) get(sessionID uuid.UUID) domain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[sessionID]
}

type fakeLedger struct {
	mu          sync.Mutex
	rows        []domain.LoginAttempt
	insertErr   error
	windowErr   error
	geoAttached chan uuid.UUID
}

func (f *fakeLedger) Insert(_ context.Context, attempt domain.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, attempt)
	return nil
}

func (f *fakeLedger) FailureWindow(_ context.Context, username string, since time.Time) (int, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.windowErr != nil {
		return 0, nil, f.windowErr
	}
	count := 0
	var last *time.Time
	for _, row := range f.rows {
		if row.Username != username || row.Success || row.AttemptedAt.Before(since) {
			continue
		}
		count++
		at := row.AttemptedAt
		if last == nil || at.After(*last) {
			last = &at
		}
	}
	return count, last, nil
}

func (f *fakeLedger) AttachGeo(_ context.Context, attemptID uuid.UUID, loc ports.GeoLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.rows {
		if row.ID == attemptID && row.GeoCity == nil {
			city, country := loc.City, loc.Country
			lat, lon := loc.Lat, loc.Lon
			row.GeoCity = &city
			row.GeoCountry = &country
			row.GeoLat = &lat
			row.GeoLon = &lon
			f.rows[i] = row
		}
	}
	select {
	case f.geoAttached <- attemptID:
	default:
	}
	return nil
}

func (f *fakeLedger) List(_ context.Context, filter ports.AttemptFilter) ([]domain.LoginAttempt, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]domain.LoginAttempt, 0)
	for _, row := range f.rows {
		if filter.Username != "" && row.Username != filter.Username {
			continue
		}
		if filter.Success != nil && row.Success != *filter.Success {
			continue
		}
		matched = append(matched, row)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeLedger) DeleteByIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keep := make([]domain.LoginAttempt, 0, len(f.rows))
	var deleted int64
	for _, row := range f.rows {
		found := false
		for _, id := range ids {
			if row.ID == id {
				found = true
				break
			}
		}
		if found {
			deleted++
			continue
		}
		keep = append(keep, row)
	}
	f.rows = keep
	return deleted, nil
}

func (f *fakeLedger) DeleteBefore(_ context.Context, before *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if before == nil {
		deleted := int64(len(f.rows))
		f.rows = nil
		return deleted, nil
	}
	keep := make([]domain.LoginAttempt, 0, len(f.rows))
	var deleted int64
	for _, row := range f.rows {
		if row.AttemptedAt.Before(*before) {
			deleted++
			continue
		}
		keep = append(keep, row)
	}
	f.rows = keep
	return deleted, nil
}

func (f *fakeLedger) all() []domain.LoginAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.LoginAttempt, len(f.rows))
	copy(out, f.rows)
	return out
}

type fakeActivity struct {
	stats    ports.ActivityStats
	online   []ports.OnlineUser
	daily    []ports.DailyLoginCount
	usage    []ports.UserDailyUsage
	sessions []domain.Session
	external []domain.LoginAttempt
}

func (f *fakeActivity) Stats(context.Context, time.Time, time.Time) (ports.ActivityStats, error) {
	return f.stats, nil
}

func (f *fakeActivity) OnlineUsers(context.Context, time.Time) ([]ports.OnlineUser, error) {
	return f.online, nil
}

func (f *fakeActivity) DailyCounts(context.Context, time.Time) ([]ports.DailyLoginCount, error) {
	return f.daily, nil
}

func (f *fakeActivity) DailyUsage(context.Context, time.Time, time.Time) ([]ports.UserDailyUsage, error) {
	return f.usage, nil
}

func (f *fakeActivity) SessionsBetween(context.Context, time.Time, time.Time) ([]domain.Session, error) {
	return f.sessions, nil
}

func (f *fakeActivity) ExternalIPAttempts(context.Context, []string, *time.Time, int) ([]domain.LoginAttempt, error) {
	return f.external, nil
}

type fakeNotifications struct {
	inserted chan domain.Notification
}

func (f *fakeNotifications) Insert(_ context.Context, n domain.Notification) error {
	select {
	case f.inserted <- n:
	default:
	}
	return nil
}

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	f.counts[key]++
	return f.counts[key] <= limit, nil
}

func (f *fakeLimiter) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.counts[key] > 0 {
		f.counts[key]--
	}
	return nil
}

type fakeGeo struct {
	loc   ports.GeoLocation
	err   error
	calls chan string
}

func (f *fakeGeo) Lookup(_ context.Context, ip string) (ports.GeoLocation, error) {
	select {
	case f.calls <- ip:
	default:
	}
	if f.err != nil {
		return ports.GeoLocation{}, f.err
	}
	return f.loc, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

type fakeSigner struct {
	mu      sync.Mutex
	tokens  map[string]ports.AuthClaims
	signErr error
}

func (f *fakeSigner) Sign(claims ports.AuthClaims) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signErr != nil {
		return "", f.signErr
	}
	token := "token-" + uuid.NewString()
	f.tokens[token] = claims
	return token, nil
}

func (f *fakeSigner) ParseAndValidate(token string) (ports.AuthClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token == "expired" {
		return ports.AuthClaims{}, domain.ErrTokenExpired
	}
	claims, ok := f.tokens[token]
	if !ok {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	return claims, nil
}
