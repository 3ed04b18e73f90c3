package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bizdesk/auth-service/internal/domain"
)

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// decodeOptionalBody tolerates an absent or empty request body.
func decodeOptionalBody(r *http.Request, dst any) error {
	err := decodeBody(r, dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseIntDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// parseTimeParam accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseTimeParam(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("time must be RFC 3339 or YYYY-MM-DD")
	}
	return &t, nil
}

func parseBoolParam(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	default:
		return nil
	}
}

func readIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	var locked *domain.LockedError
	if errors.As(err, &locked) {
		logHTTPOperationError(ctx, operation, http.StatusLocked, "account locked", err)
		writeLocked(w, locked.UnlockAt, locked.FailedAttempts)
		return
	}
	status, msg := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, msg, err)
	writeError(w, status, msg)
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	msg := err.Error()
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, msg, err)
	writeError(w, http.StatusBadRequest, msg)
}

func writeMissingBearerError(ctx context.Context, w http.ResponseWriter, operation string) {
	msg := "Missing bearer token"
	logHTTPOperationError(ctx, operation, http.StatusUnauthorized, msg, nil)
	writeError(w, http.StatusUnauthorized, msg)
}
