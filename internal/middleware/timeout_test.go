package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeout_CutsOffSlowHandler(t *testing.T) {
	t.Parallel()

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := Timeout(20 * time.Millisecond)(slow)

	req := httptest.NewRequest("GET", "/admin/projects", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.StatusCode)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("timeout body is not JSON: %v", err)
	}
	if body.Success {
		t.Error("expected success to be false")
	}
	if body.Error != "Request Timeout" {
		t.Errorf("expected error 'Request Timeout', got %q", body.Error)
	}
}

func TestTimeout_FastHandlerPassesThrough(t *testing.T) {
	t.Parallel()

	fast := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); !ok {
			t.Error("expected request context to carry a deadline")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	handler := Timeout(time.Second)(fast)

	req := httptest.NewRequest("GET", "/projects", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
}
