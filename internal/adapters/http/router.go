package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bizdesk/auth-service/internal/application"
)

// Handler is the HTTP adapter entrypoint for the auth use-cases.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers the HTTP routes and middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(metricsMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", handler.login)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/logout", handler.logout)
			r.Get("/me", handler.me)
			r.Post("/change-password", handler.changePassword)
		})
	})

	r.Route("/api/login-activity", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Post("/heartbeat", handler.heartbeat)

		r.Group(func(r chi.Router) {
			r.Use(handler.requireRole("admin"))
			r.Get("/stats", handler.activityStats)
			r.Get("/attempts", handler.listAttempts)
			r.Get("/online-users", handler.onlineUsers)
			r.Get("/chart", handler.loginChart)
			r.Get("/session-summary", handler.sessionSummary)
			r.Get("/session-history", handler.sessionHistory)
			r.Get("/external-ips", handler.externalIPAttempts)
			r.Delete("/attempts", handler.deleteAttempts)
			r.Delete("/attempts/{id}", handler.deleteAttempt)
		})
	})

	return r
}
