package middleware

import (
	"net/http"
	"strings"
)

const corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
const corsAllowHeaders = "Content-Type, Authorization"

// CORS creates CORS middleware that handles CORS headers and OPTIONS preflight requests
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			originAllowed := origin != "" && allowed[origin]

			if r.Method == http.MethodOptions {
				if originAllowed {
					setCORSHeaders(w, origin)
					w.Header().Set("Access-Control-Max-Age", "86400")
				}
				// 204 regardless of origin; the browser rejects the response
				// itself when the headers are missing
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if originAllowed {
				setCORSHeaders(w, origin)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setCORSHeaders(w http.ResponseWriter, origin string) {
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
	w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
	w.Header().Set("Access-Control-Allow-Credentials", "true")
}

// CORSFromEnv creates CORS middleware from the FRONTEND_URL environment value
// (comma-separated origins). localhost:3000 is always allowed for development.
func CORSFromEnv(frontendURL string) func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	for _, origin := range strings.Split(frontendURL, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" || trimmed == origins[0] {
			continue
		}
		origins = append(origins, trimmed)
	}
	return CORS(origins)
}
