package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID   string
	Environment string

	HTTPPort int

	DatabaseDSN string
	RedisURL    string

	JWTSecret string

	BcryptCost int

	TokenTTL             time.Duration
	FailedThreshold      int
	LockoutWindow        time.Duration
	SessionIdleTimeout   time.Duration
	LoginRateLimit       int
	LoginRateWindow      time.Duration
	UserLookupRetryPause time.Duration

	GeoEnabled bool
	GeoBaseURL string
	GeoTimeout time.Duration

	InternalIPPrefixes []string

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		MySQLURL string `yaml:"mysql_url"`
		RedisURL string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Auth struct {
		TokenTTLHours          int `yaml:"token_ttl_hours"`
		FailedLoginThreshold   int `yaml:"failed_login_threshold"`
		LockoutMinutes         int `yaml:"lockout_minutes"`
		SessionIdleMinutes     int `yaml:"session_idle_minutes"`
		LoginRateLimit         int `yaml:"login_rate_limit"`
		LoginRateWindowMinutes int `yaml:"login_rate_window_minutes"`
		BcryptCost             int `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Geo struct {
		Enabled        *bool  `yaml:"enabled"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"geo"`
	Network struct {
		InternalIPPrefixes []string `yaml:"internal_ip_prefixes"`
	} `yaml:"network"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:            "auth-service",
		Environment:          "development",
		HTTPPort:             8080,
		BcryptCost:           12,
		TokenTTL:             168 * time.Hour,
		FailedThreshold:      5,
		LockoutWindow:        30 * time.Minute,
		SessionIdleTimeout:   30 * time.Minute,
		LoginRateLimit:       5,
		LoginRateWindow:      15 * time.Minute,
		UserLookupRetryPause: 100 * time.Millisecond,
		GeoEnabled:           true,
		GeoBaseURL:           "http://ip-api.com/json",
		GeoTimeout:           5 * time.Second,
		InternalIPPrefixes:   []string{"10.", "192.168.", "172.16.", "127."},
		MaxDBConns:           20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.MySQLURL != "" {
			cfg.DatabaseDSN = f.Dependencies.MySQLURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Auth.TokenTTLHours > 0 {
			cfg.TokenTTL = time.Duration(f.Auth.TokenTTLHours) * time.Hour
		}
		if f.Auth.FailedLoginThreshold > 0 {
			cfg.FailedThreshold = f.Auth.FailedLoginThreshold
		}
		if f.Auth.LockoutMinutes > 0 {
			cfg.LockoutWindow = time.Duration(f.Auth.LockoutMinutes) * time.Minute
		}
		if f.Auth.SessionIdleMinutes > 0 {
			cfg.SessionIdleTimeout = time.Duration(f.Auth.SessionIdleMinutes) * time.Minute
		}
		if f.Auth.LoginRateLimit > 0 {
			cfg.LoginRateLimit = f.Auth.LoginRateLimit
		}
		if f.Auth.LoginRateWindowMinutes > 0 {
			cfg.LoginRateWindow = time.Duration(f.Auth.LoginRateWindowMinutes) * time.Minute
		}
		if f.Auth.BcryptCost > 0 {
			cfg.BcryptCost = f.Auth.BcryptCost
		}
		if f.Geo.Enabled != nil {
			cfg.GeoEnabled = *f.Geo.Enabled
		}
		if f.Geo.BaseURL != "" {
			cfg.GeoBaseURL = f.Geo.BaseURL
		}
		if f.Geo.TimeoutSeconds > 0 {
			cfg.GeoTimeout = time.Duration(f.Geo.TimeoutSeconds) * time.Second
		}
		if len(f.Network.InternalIPPrefixes) > 0 {
			cfg.InternalIPPrefixes = f.Network.InternalIPPrefixes
		}
	}

	cfg.Environment = strings.ToLower(envOrDefault("APP_ENV", cfg.Environment))
	cfg.DatabaseDSN = envOrDefault("DB_URL", envOrDefault("MYSQL_URL", cfg.DatabaseDSN))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.GeoBaseURL = envOrDefault("GEO_BASE_URL", cfg.GeoBaseURL)
	cfg.GeoEnabled = envBool("GEO_ENABLED", cfg.GeoEnabled)
	cfg.InternalIPPrefixes = envCSV("INTERNAL_IP_PREFIXES", cfg.InternalIPPrefixes)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedThreshold = envInt("MAX_FAILED_ATTEMPTS", cfg.FailedThreshold)
	cfg.LoginRateLimit = envInt("LOGIN_RATE_LIMIT", cfg.LoginRateLimit)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.TokenTTL = time.Duration(envInt("JWT_EXPIRES_IN_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour
	cfg.TokenTTL = envDuration("JWT_EXPIRES_IN", cfg.TokenTTL)
	cfg.LockoutWindow = time.Duration(envInt("LOCKOUT_DURATION_MINUTES", envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutWindow.Minutes())))) * time.Minute
	cfg.SessionIdleTimeout = time.Duration(envInt("SESSION_IDLE_MINUTES", int(cfg.SessionIdleTimeout.Minutes()))) * time.Minute
	cfg.LoginRateWindow = time.Duration(envInt("LOGIN_RATE_WINDOW_MINUTES", int(cfg.LoginRateWindow.Minutes()))) * time.Minute
	cfg.GeoTimeout = time.Duration(envInt("GEO_TIMEOUT_SECONDS", int(cfg.GeoTimeout.Seconds()))) * time.Second

	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("missing DB_URL/MYSQL_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return Config{}, fmt.Errorf("missing JWT_SECRET in production")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envDuration parses Go duration strings plus the day suffix older deployments
// used for token lifetimes, e.g. "7d".
func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days <= 0 {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
