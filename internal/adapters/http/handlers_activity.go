package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/application"
)

var errInvalidAttemptID = errors.New("invalid attempt id")

func (h *Handler) heartbeat(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "heartbeat")
		return
	}

	var req struct {
		SessionID *uuid.UUID `json:"sessionId"`
	}
	if err := decodeOptionalBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "heartbeat", err)
		return
	}

	res := h.service.Heartbeat(r.Context(), user.ID, req.SessionID)
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) activityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ActivityStats(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "activity_stats", err)
		return
	}
	writeSuccess(w, http.StatusOK, stats)
}

func (h *Handler) onlineUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.OnlineUsers(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "online_users", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := parseTimeParam(q.Get("from"))
	if err != nil {
		writeValidationError(r.Context(), w, "list_attempts", err)
		return
	}
	to, err := parseTimeParam(q.Get("to"))
	if err != nil {
		writeValidationError(r.Context(), w, "list_attempts", err)
		return
	}

	page, err := h.service.ListAttempts(r.Context(), application.AttemptListQuery{
		Username: strings.TrimSpace(q.Get("username")),
		Success:  parseBoolParam(q.Get("success")),
		From:     from,
		To:       to,
		SortBy:   q.Get("sortBy"),
		SortDesc: !strings.EqualFold(q.Get("sortOrder"), "asc"),
		Page:     parseIntDefault(q.Get("page"), 1),
		Limit:    parseIntDefault(q.Get("limit"), 50),
	})
	if err != nil {
		writeMappedError(r.Context(), w, "list_attempts", err)
		return
	}
	writeSuccess(w, http.StatusOK, page)
}

func (h *Handler) loginChart(w http.ResponseWriter, r *http.Request) {
	days := parseIntDefault(r.URL.Query().Get("days"), 7)
	series, err := h.service.LoginChart(r.Context(), days)
	if err != nil {
		writeMappedError(r.Context(), w, "login_chart", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"days": series})
}

func (h *Handler) sessionSummary(w http.ResponseWriter, r *http.Request) {
	usage, err := h.service.SessionSummary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeMappedError(r.Context(), w, "session_summary", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": usage})
}

func (h *Handler) sessionHistory(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.SessionHistory(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeMappedError(r.Context(), w, "session_history", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": groups})
}

func (h *Handler) externalIPAttempts(w http.ResponseWriter, r *http.Request) {
	todayOnly := strings.EqualFold(r.URL.Query().Get("today"), "true")
	attempts, err := h.service.ExternalIPAttempts(r.Context(), todayOnly)
	if err != nil {
		writeMappedError(r.Context(), w, "external_ip_attempts", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"attempts": attempts})
}

func (h *Handler) deleteAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidationError(r.Context(), w, "delete_attempt", errInvalidAttemptID)
		return
	}
	if err := h.service.DeleteAttempt(r.Context(), id); err != nil {
		writeMappedError(r.Context(), w, "delete_attempt", err)
		return
	}
	writeMessage(w, http.StatusOK, "Login attempt deleted")
}

func (h *Handler) deleteAttempts(w http.ResponseWriter, r *http.Request) {
	var req application.BulkDeleteRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "delete_attempts", err)
		return
	}
	deleted, err := h.service.DeleteAttempts(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_attempts", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": deleted})
}
