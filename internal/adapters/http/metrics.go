package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bizdesk/auth-service/internal/domain"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auth_service",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "auth_service",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	loginOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auth_service",
		Subsystem: "auth",
		Name:      "login_outcomes_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})
)

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func observeLoginOutcome(err error) {
	switch {
	case err == nil:
		loginOutcomesTotal.WithLabelValues("success").Inc()
	case errors.Is(err, domain.ErrAccountLocked):
		loginOutcomesTotal.WithLabelValues("locked").Inc()
	case errors.Is(err, domain.ErrRateLimited):
		loginOutcomesTotal.WithLabelValues("rate_limited").Inc()
	case errors.Is(err, domain.ErrAccountInactive):
		loginOutcomesTotal.WithLabelValues("inactive").Inc()
	case errors.Is(err, domain.ErrInvalidInput):
		loginOutcomesTotal.WithLabelValues("invalid_input").Inc()
	default:
		loginOutcomesTotal.WithLabelValues("failure").Inc()
	}
}
