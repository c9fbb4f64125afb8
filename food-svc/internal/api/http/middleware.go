package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"foodhub/food-svc/internal/domain"
	"foodhub/logger"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type principalKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with an id (reusing an incoming
// X-Request-ID) and logs one line when it completes.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		h.Log.Ctx(ctx).Action("http").Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// authenticated rejects requests without a valid bearer token.
func (h *Handler) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}
		p, err := h.Auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			writeFail(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, *p)))
	}
}

// staff allows admins and managers only.
func (h *Handler) staff(next http.HandlerFunc) http.HandlerFunc {
	return h.authenticated(func(w http.ResponseWriter, r *http.Request) {
		if !principal(r).IsStaff() {
			writeFail(w, http.StatusForbidden, "admin or manager role required")
			return
		}
		next(w, r)
	})
}

func principal(r *http.Request) domain.Principal {
	p, _ := r.Context().Value(principalKey{}).(domain.Principal)
	return p
}

// optionalAuth attaches the caller when a valid token is sent and lets
// anonymous requests through.
func (h *Handler) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			if p, err := h.Auth.Authenticate(strings.TrimSpace(token)); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), principalKey{}, *p))
			}
		}
		next(w, r)
	}
}
