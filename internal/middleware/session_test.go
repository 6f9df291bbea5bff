package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/request"
	"github.com/greenhill-dev/estates-api/internal/session"
)

type allowAllAuth struct{}

func (allowAllAuth) Authenticate(context.Context, string) (bool, error) { return true, nil }

func newTestGate(t *testing.T) (*session.Gate, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	return session.NewGate(store, allowAllAuth{}), store
}

func TestSessionGate_ValidSession(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	token, ok := gate.Login(context.Background(), "secret")
	if !ok {
		t.Fatal("login failed")
	}

	var gotToken string
	handler := SessionGate(gate, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = request.SessionTokenFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotToken != token {
		t.Errorf("session token in context = %q, want %q", gotToken, token)
	}
}

func TestSessionGate_MissingToken(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	handler := SessionGate(gate, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a session")
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/projects", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
}

func TestSessionGate_ExpiredSession(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	gate := session.NewGate(store, allowAllAuth{})
	token, ok := gate.Login(context.Background(), "secret")
	if !ok {
		t.Fatal("login failed")
	}

	// Age the stored record past the timeout
	stale := session.Record{
		Authenticated: true,
		Timestamp:     time.Now().Add(-25 * time.Hour).UnixMilli(),
	}
	if err := store.Put(context.Background(), token, stale); err != nil {
		t.Fatalf("put: %v", err)
	}

	handler := SessionGate(gate, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with an expired session")
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestSessionGate_GarbageToken(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)
	handler := SessionGate(gate, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with an unknown token")
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/projects", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
