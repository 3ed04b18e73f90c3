package application

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/bizdesk/auth-service/internal/domain"
)

// recordAttempt appends one ledger row. Ledger writes are fire-and-forget:
// a storage failure is logged and the login flow proceeds. Public source IPs
// get a detached geolocation enrichment task.
func (s *Service) recordAttempt(ctx context.Context, userID *uuid.UUID, username string, req LoginRequest, success bool, failureReason string) {
	deviceName, deviceOS := deviceFromUserAgent(req.UserAgent)
	attempt := domain.LoginAttempt{
		ID:            uuid.New(),
		UserID:        userID,
		Username:      username,
		Success:       success,
		FailureReason: failureReason,
		IPAddress:     req.IPAddress,
		UserAgent:     req.UserAgent,
		DeviceName:    deviceName,
		DeviceOS:      deviceOS,
		AttemptedAt:   s.nowFn(),
	}
	if err := s.loginAttempts.Insert(ctx, attempt); err != nil {
		slog.Default().WarnContext(ctx, "failed to persist login attempt",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "record_login_attempt",
			"outcome", "failure",
			"username", username,
			"reason", failureReason,
			"error", err,
		)
		return
	}

	if s.geo != nil && isPublicIP(req.IPAddress) {
		go s.enrichAttemptGeo(attempt.ID, req.IPAddress)
	}
}

// enrichAttemptGeo runs outside the request lifecycle with its own deadline.
// Any failure leaves the row un-enriched; there is nothing to surface to the
// client that triggered it.
func (s *Service) enrichAttemptGeo(attemptID uuid.UUID, ip string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	loc, err := s.geo.Lookup(ctx, ip)
	if err != nil {
		slog.Default().DebugContext(ctx, "geolocation lookup failed",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "enrich_attempt_geo",
			"outcome", "skipped",
			"ip", ip,
			"error", err,
		)
		return
	}
	if err := s.loginAttempts.AttachGeo(ctx, attemptID, loc); err != nil {
		slog.Default().WarnContext(ctx, "failed to attach geolocation",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "enrich_attempt_geo",
			"outcome", "failure",
			"attempt_id", attemptID,
			"error", err,
		)
	}
}

// enforceLoginRateLimit applies the fixed-window per-IP limit. A limiter
// infrastructure error fails open: availability wins over strictness and the
// per-account lockout still applies.
func (s *Service) enforceLoginRateLimit(ctx context.Context, ip string) error {
	if s.rateLimiter == nil || s.cfg.LoginRateLimit <= 0 || strings.TrimSpace(ip) == "" {
		return nil
	}
	allowed, err := s.rateLimiter.Allow(ctx, "login:ip:"+ip, s.cfg.LoginRateLimit, s.cfg.LoginRateWindow)
	if err != nil {
		slog.Default().WarnContext(ctx, "rate limiter unavailable, allowing login",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "login_rate_limit",
			"outcome", "fail_open",
			"ip", ip,
			"error", err,
		)
		return nil
	}
	if !allowed {
		return domain.ErrRateLimited
	}
	return nil
}

// releaseLoginRateLimit refunds the window slot a successful login consumed,
// so only failed attempts count toward the per-IP limit. Many users behind
// one office NAT must not throttle each other by logging in normally.
func (s *Service) releaseLoginRateLimit(ctx context.Context, ip string) {
	if s.rateLimiter == nil || s.cfg.LoginRateLimit <= 0 || strings.TrimSpace(ip) == "" {
		return
	}
	if err := s.rateLimiter.Release(ctx, "login:ip:"+ip); err != nil {
		slog.Default().WarnContext(ctx, "rate limit release failed",
			"service", "auth-service",
			"module", "application",
			"layer", "application",
			"operation", "login_rate_limit",
			"outcome", "warning",
			"ip", ip,
			"error", err,
		)
	}
}

// isPublicIP reports whether the address is worth a geolocation lookup.
// Private, loopback, link-local and unparseable addresses are skipped.
func isPublicIP(raw string) bool {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return false
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return false
	}
	return true
}

// deviceFromUserAgent derives coarse device metadata for session and ledger
// rows. The raw User-Agent is stored alongside, so lossy parsing is fine.
func deviceFromUserAgent(raw string) (string, string) {
	if strings.TrimSpace(raw) == "" {
		return "", ""
	}
	ua := useragent.Parse(raw)
	name := strings.TrimSpace(ua.Name)
	if ua.Device != "" {
		name = strings.TrimSpace(ua.Device + " " + name)
	}
	return name, strings.TrimSpace(ua.OS)
}
