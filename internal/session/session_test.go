package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubAuthenticator struct {
	ok  bool
	err error
}

func (a *stubAuthenticator) Authenticate(ctx context.Context, password string) (bool, error) {
	return a.ok, a.err
}

func gateAt(store Store, auth Authenticator, now time.Time) *Gate {
	g := NewGate(store, auth)
	g.now = func() time.Time { return now }
	return g
}

func TestGate_Check_ValidSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	// Logged in 23 hours ago: still inside the 24h window.
	rec := Record{Authenticated: true, Timestamp: now.Add(-23 * time.Hour).UnixMilli()}
	if err := store.Put(ctx, "tok", rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	g := gateAt(store, &stubAuthenticator{}, now)
	if state := g.Check(ctx, "tok"); state != StateAuthenticated {
		t.Errorf("expected authenticated, got %s", state)
	}
}

func TestGate_Check_ExpiredSessionCleared(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	rec := Record{Authenticated: true, Timestamp: now.Add(-25 * time.Hour).UnixMilli()}
	if err := store.Put(ctx, "tok", rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	g := gateAt(store, &stubAuthenticator{}, now)
	if state := g.Check(ctx, "tok"); state != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", state)
	}

	// Expired record must be actively removed.
	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("expected expired record to be cleared")
	}
}

func TestGate_Check_MalformedRecordCleared(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	store.putRaw("tok", []byte("not json{"))

	g := NewGate(store, &stubAuthenticator{})
	if state := g.Check(ctx, "tok"); state != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", state)
	}
	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("expected malformed record to be cleared")
	}
}

func TestGate_Check_UnauthenticatedRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Put(ctx, "tok", Record{Authenticated: false, Timestamp: time.Now().UnixMilli()}); err != nil {
		t.Fatalf("put: %v", err)
	}

	g := NewGate(store, &stubAuthenticator{})
	if state := g.Check(ctx, "tok"); state != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", state)
	}
}

func TestGate_Check_EmptyToken(t *testing.T) {
	t.Parallel()

	g := NewGate(NewMemoryStore(), &stubAuthenticator{})
	if state := g.Check(context.Background(), ""); state != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", state)
	}
}

func TestGate_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		auth   *stubAuthenticator
		wantOK bool
	}{
		{"success", &stubAuthenticator{ok: true}, true},
		{"wrong password", &stubAuthenticator{ok: false}, false},
		{"endpoint error fails closed", &stubAuthenticator{err: errors.New("timeout")}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := NewMemoryStore()
			g := NewGate(store, tt.auth)

			token, ok := g.Login(ctx, "secret")
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if !tt.wantOK {
				if token != "" {
					t.Errorf("expected empty token on failure, got %q", token)
				}
				return
			}
			if token == "" {
				t.Fatal("expected non-empty token")
			}
			if state := g.Check(ctx, token); state != StateAuthenticated {
				t.Errorf("expected freshly logged-in session to be authenticated, got %s", state)
			}
		})
	}
}

func TestGate_Logout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	g := NewGate(store, &stubAuthenticator{ok: true})

	token, ok := g.Login(ctx, "secret")
	if !ok {
		t.Fatal("login failed")
	}

	g.Logout(ctx, token)
	if state := g.Check(ctx, token); state != StateUnauthenticated {
		t.Errorf("expected unauthenticated after logout, got %s", state)
	}
}
