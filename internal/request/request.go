package request

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const sessionTokenContextKey contextKey = "session_token"

// SessionTokenContextKey returns the context key used for the admin session
// token. Exposed for tests that inject non-string values.
func SessionTokenContextKey() contextKey { return sessionTokenContextKey }

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "" when absent or malformed.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// WithSessionToken returns a context with the admin session token attached.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenContextKey, token)
}

// SessionTokenFromContext returns the admin session token from the request
// context, or "" if missing or wrong type.
func SessionTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(sessionTokenContextKey).(string)
	return token
}
