package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/request"
	"github.com/greenhill-dev/estates-api/internal/session"
)

// SessionGate guards admin routes. Requests must carry a Bearer token naming a
// live admin session; anything else gets a 401. The gate fails closed: storage
// errors and expired or malformed records all deny access.
func SessionGate(gate *session.Gate, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := request.BearerToken(r)
			if token == "" {
				respondErrorJSON(w, r, http.StatusUnauthorized, "Unauthorized", "Admin session required", logger)
				return
			}

			if gate.Check(r.Context(), token) != session.StateAuthenticated {
				respondErrorJSON(w, r, http.StatusUnauthorized, "Unauthorized", "Admin session expired or invalid", logger)
				return
			}

			ctx := request.WithSessionToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
