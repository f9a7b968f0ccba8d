package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
)

// SessionValidator resolves a presented name/token pair to a principal.
type SessionValidator interface {
	ValidateSession(ctx context.Context, name, token string) (application.Principal, error)
}

// HTTPMetrics records served requests. A nil recorder disables recording.
type HTTPMetrics interface {
	RecordHTTPRequest(method string, statusCode int, duration time.Duration)
}

// RequireSession rejects requests without a live session and attaches the
// resolved principal to the context.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, token := extractSessionFromRequest(r)
			if name == "" || token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
				return
			}

			principal, err := validator.ValidateSession(r.Context(), name, token)
			if err != nil {
				if errors.Is(err, application.ErrSessionExpired) {
					clearSessionCookies(w)
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						ErrorCode: "AUTH_SESSION_EXPIRED",
						Message:   "the session has expired, please log in again",
					})
					return
				}
				responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "session validation failed"})
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger tags every request with a generated id, logs start and
// completion, and feeds the HTTP metrics.
func RequestLogger(base *slog.Logger, metrics HTTPMetrics) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				"request_id", uuid.NewString(),
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(recorder, r.WithContext(ctx))
			duration := time.Since(start)

			if metrics != nil {
				metrics.RecordHTTPRequest(r.Method, recorder.status, duration)
			}
			logger.InfoContext(ctx, "request completed", "status", recorder.status, "duration", duration)
		})
	}
}

// LoginLimiter throttles login attempts per submitted user name so one
// account cannot be brute forced. The auth handler consults it after
// decoding the request body.
type LoginLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewLoginLimiter allows perMinute attempts per user name with the given
// burst. Non-positive arguments fall back to 10 per minute and a burst of 5.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &LoginLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether one more attempt for the key may proceed. A nil
// limiter allows everything.
func (l *LoginLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	key = strings.TrimSpace(key)

	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
