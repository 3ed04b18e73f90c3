package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/application"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		observeLoginOutcome(err)
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	observeLoginOutcome(nil)
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "logout")
		return
	}

	var req struct {
		SessionID *uuid.UUID `json:"sessionId"`
	}
	if err := decodeOptionalBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "logout", err)
		return
	}

	h.service.Logout(r.Context(), user.ID, req.SessionID)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "me")
		return
	}
	writeSuccess(w, http.StatusOK, h.service.Profile(user))
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "change_password")
		return
	}

	var req application.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "change_password", err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), user.ID, req); err != nil {
		writeMappedError(r.Context(), w, "change_password", err)
		return
	}
	writeMessage(w, http.StatusOK, "Password changed successfully")
}
