package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/profitlens/profitlens/internal/app/services/auth"
)

type ctxKey int

const ctxSessionKey ctxKey = iota

// sessionFrom extracts the verified session claims from the request context.
func sessionFrom(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(ctxSessionKey).(auth.Claims)
	return claims, ok
}

// requireSession rejects requests without a valid bearer token before any
// downstream work happens, and records authenticated calls in the audit log.
func (h *handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := h.app.Auth.VerifySession(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), ctxSessionKey, claims)
		next.ServeHTTP(rec, r.WithContext(ctx))

		h.audit.add(auditEntry{
			Time:       time.Now().UTC(),
			User:       claims.Username,
			Path:       r.URL.Path,
			Method:     r.Method,
			Status:     rec.status,
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
