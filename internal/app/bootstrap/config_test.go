package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
service:
  id: auth-service
  http_port: 9000
dependencies:
  mysql_url: "app:app@tcp(db:3306)/bizdesk?parseTime=true"
  redis_url: "redis://cache:6379/0"
auth:
  failed_login_threshold: 3
  lockout_minutes: 10
geo:
  enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != 9000 {
		t.Fatalf("expected file port override, got %d", cfg.HTTPPort)
	}
	if cfg.FailedThreshold != 3 || cfg.LockoutWindow != 10*time.Minute {
		t.Fatalf("expected auth overrides, got %d/%v", cfg.FailedThreshold, cfg.LockoutWindow)
	}
	if cfg.GeoEnabled {
		t.Fatalf("expected geo disabled by file")
	}
	if cfg.TokenTTL != 168*time.Hour {
		t.Fatalf("expected default token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.LoginRateLimit != 5 || cfg.LoginRateWindow != 15*time.Minute {
		t.Fatalf("expected default rate limit, got %d/%v", cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
	if len(cfg.InternalIPPrefixes) == 0 {
		t.Fatalf("expected default internal prefixes")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
dependencies:
  mysql_url: "app:app@tcp(db:3306)/bizdesk"
  redis_url: "redis://cache:6379/0"
`)

	t.Setenv("HTTP_PORT", "8888")
	t.Setenv("MAX_FAILED_ATTEMPTS", "7")
	t.Setenv("ACCOUNT_LOCKOUT_MINUTES", "45")
	t.Setenv("SESSION_IDLE_MINUTES", "20")
	t.Setenv("JWT_EXPIRES_IN_HOURS", "24")
	t.Setenv("INTERNAL_IP_PREFIXES", "10., 172.31.")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != 8888 {
		t.Fatalf("expected env port, got %d", cfg.HTTPPort)
	}
	if cfg.FailedThreshold != 7 || cfg.LockoutWindow != 45*time.Minute {
		t.Fatalf("expected env lockout settings, got %d/%v", cfg.FailedThreshold, cfg.LockoutWindow)
	}
	if cfg.SessionIdleTimeout != 20*time.Minute || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected env durations, got %v/%v", cfg.SessionIdleTimeout, cfg.TokenTTL)
	}
	if len(cfg.InternalIPPrefixes) != 2 || cfg.InternalIPPrefixes[1] != "172.31." {
		t.Fatalf("expected csv prefixes, got %#v", cfg.InternalIPPrefixes)
	}
}

func TestLoadConfigDurationAliases(t *testing.T) {
	path := writeConfig(t, `
dependencies:
  mysql_url: "app:app@tcp(db:3306)/bizdesk"
  redis_url: "redis://cache:6379/0"
`)

	t.Setenv("JWT_EXPIRES_IN", "7d")
	t.Setenv("LOCKOUT_DURATION_MINUTES", "45")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Fatalf("expected day-suffixed token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.LockoutWindow != 45*time.Minute {
		t.Fatalf("expected lockout override, got %v", cfg.LockoutWindow)
	}

	// JWT_EXPIRES_IN wins over the hour-granular alias.
	t.Setenv("JWT_EXPIRES_IN", "36h")
	t.Setenv("JWT_EXPIRES_IN_HOURS", "12")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TokenTTL != 36*time.Hour {
		t.Fatalf("expected JWT_EXPIRES_IN precedence, got %v", cfg.TokenTTL)
	}
}

func TestLoadConfigRequiresDatabase(t *testing.T) {
	path := writeConfig(t, `
dependencies:
  redis_url: "redis://cache:6379/0"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for missing database url")
	}
}

func TestLoadConfigRequiresJWTSecretInProduction(t *testing.T) {
	path := writeConfig(t, `
dependencies:
  mysql_url: "app:app@tcp(db:3306)/bizdesk"
  redis_url: "redis://cache:6379/0"
`)

	t.Setenv("APP_ENV", "production")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for missing jwt secret in production")
	}

	t.Setenv("JWT_SECRET", "super-secret")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.JWTSecret != "super-secret" {
		t.Fatalf("expected jwt secret from env")
	}
}
