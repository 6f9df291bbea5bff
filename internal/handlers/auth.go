package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/request"
	"github.com/greenhill-dev/estates-api/internal/session"
)

// AuthHandler handles admin login, logout, and session checks
type AuthHandler struct {
	gate   *session.Gate
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(gate *session.Gate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{gate: gate, logger: logger}
}

// RegisterRoutes registers auth routes on the given router
// The router should already have the /auth prefix
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.HandleFunc("/session", h.Session).Methods("GET")
}

// LoginRequest represents a login request
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the session token issued on success
type LoginResponse struct {
	Token string `json:"token"`
}

// SessionResponse reports whether the presented token names a live session
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login verifies the admin password against the external auth endpoint and
// issues a session token valid for 24 hours
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if req.Password == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Password is required")
		return
	}

	token, ok := h.gate.Login(r.Context(), req.Password)
	if !ok {
		h.logger.Warn("admin_login_failed",
			zap.String("ip", request.ClientIP(r)),
		)
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid password")
		return
	}

	h.logger.Info("admin_login_succeeded")
	respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout clears the presented session unconditionally
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := request.BearerToken(r)
	h.gate.Logout(r.Context(), token)
	respondJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// Session reports the gate's verdict for the presented token. Unlike admin
// routes this never 401s; the admin UI polls it to decide what to render.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	token := request.BearerToken(r)
	state := h.gate.Check(r.Context(), token)
	respondJSON(w, http.StatusOK, SessionResponse{
		Authenticated: state == session.StateAuthenticated,
	})
}
