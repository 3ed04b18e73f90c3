package application

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/bizdesk/auth-service/internal/domain"
)

func (f *fixture) loginToken(t *testing.T, username, password string) string {
	t.Helper()
	res, err := f.service.Login(context.Background(), LoginRequest{Username: username, Password: password})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return res.Token
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	user := f.addUser("somchai", "password123", "staff", domain.UserStatusActive)
	token := f.loginToken(t, "somchai", "password123")

	got, err := f.service.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if got.ID != user.ID || got.Username != "somchai" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestAuthenticateTokenErrors(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.Authenticate(ctx, "expired"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected token expired, got %v", err)
	}
	if _, err := f.service.Authenticate(ctx, "garbage"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got %v", err)
	}
}

func TestAuthenticateDeletedUserUnauthorized(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	user := f.addUser("somchai", "password123", "staff", domain.UserStatusActive)
	token := f.loginToken(t, "somchai", "password123")

	now := f.service.nowFn()
	f.users.mu.Lock()
	u := f.users.byID[user.ID]
	u.DeletedAt = &now
	f.users.byID[user.ID] = u
	f.users.mu.Unlock()

	if _, err := f.service.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for deleted user, got %v", err)
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	user := f.addUser("somchai", "password123", "staff", domain.UserStatusActive)
	token := f.loginToken(t, "somchai", "password123")

	f.users.mu.Lock()
	u := f.users.byID[user.ID]
	u.Status = domain.UserStatusInactive
	f.users.byID[user.ID] = u
	f.users.mu.Unlock()

	if _, err := f.service.Authenticate(ctx, token); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected inactive account, got %v", err)
	}
}

func TestAuthenticateRetriesConnectionReset(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addUser("somchai", "password123", "staff", domain.UserStatusActive)
	token := f.loginToken(t, "somchai", "password123")

	f.users.mu.Lock()
	f.users.getByIDErrs = []error{syscall.ECONNRESET, errors.New("read tcp 10.0.0.5:3306: connection reset by peer")}
	f.users.mu.Unlock()

	if _, err := f.service.Authenticate(ctx, token); err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
}

func TestAuthenticateGivesUpAfterThreeAttempts(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addUser("somchai", "password123", "staff", domain.UserStatusActive)
	token := f.loginToken(t, "somchai", "password123")

	f.users.mu.Lock()
	f.users.getByIDErrs = []error{syscall.ECONNRESET, syscall.ECONNRESET, syscall.ECONNRESET}
	f.users.mu.Unlock()

	if _, err := f.service.Authenticate(ctx, token); !errors.Is(err, syscall.ECONNRESET) {
		t.Fatalf("expected the third reset to surface, got %v", err)
	}

	f.users.mu.Lock()
	remaining := len(f.users.getByIDErrs)
	f.users.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected exactly three lookup attempts, %d queued errors left", remaining)
	}
}

func TestAuthenticateDoesNotRetryOtherErrors(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.addUser("somchai", "password123", "staff", domain.UserStatusActive)
	token := f.loginToken(t, "somchai", "password123")

	dbErr := errors.New("table corrupted")
	f.users.mu.Lock()
	f.users.getByIDErrs = []error{dbErr, nil}
	f.users.mu.Unlock()

	if _, err := f.service.Authenticate(ctx, token); !errors.Is(err, dbErr) {
		t.Fatalf("expected non-transient error to surface immediately, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	admin := domain.User{Role: "admin"}
	staff := domain.User{Role: "staff"}

	if err := RequireRole(admin, "admin"); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	if err := RequireRole(staff, "admin", "manager"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
