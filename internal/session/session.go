package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Timeout is how long an admin session stays valid after login.
const Timeout = 24 * time.Hour

// State is the gate's verdict for a session token.
type State string

const (
	StateUnknown         State = "unknown"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Record is the stored session payload. Timestamp is epoch milliseconds of the
// login that created the record.
type Record struct {
	Authenticated bool  `json:"authenticated"`
	Timestamp     int64 `json:"timestamp"`
}

// Store persists session records keyed by token. Get returns (nil, nil) when
// no record exists; a malformed stored value is also reported as (nil, nil)
// after clearing so the gate fails closed without surfacing parse errors.
type Store interface {
	Get(ctx context.Context, token string) (*Record, error)
	Put(ctx context.Context, token string, rec Record) error
	Clear(ctx context.Context, token string) error
}

// Authenticator performs the actual credential check against the external
// auth endpoint. The gate treats it as opaque.
type Authenticator interface {
	Authenticate(ctx context.Context, password string) (bool, error)
}

// Gate decides whether a session token may access admin routes. It never
// checks credentials itself; that is delegated to the Authenticator.
type Gate struct {
	store Store
	auth  Authenticator
	now   func() time.Time
}

// NewGate creates a session gate over the given store and authenticator.
func NewGate(store Store, auth Authenticator) *Gate {
	return &Gate{store: store, auth: auth, now: time.Now}
}

// Check evaluates the stored record for token. Expired or invalid records are
// cleared as a side effect. Store read errors degrade to unauthenticated.
func (g *Gate) Check(ctx context.Context, token string) State {
	if token == "" {
		return StateUnauthenticated
	}
	rec, err := g.store.Get(ctx, token)
	if err != nil || rec == nil {
		return StateUnauthenticated
	}
	age := g.now().UnixMilli() - rec.Timestamp
	if !rec.Authenticated || age >= Timeout.Milliseconds() {
		_ = g.store.Clear(ctx, token)
		return StateUnauthenticated
	}
	return StateAuthenticated
}

// Login checks the password with the external authenticator and, on success,
// stores a fresh record under a new token. Any authenticator error is treated
// as a failed login.
func (g *Gate) Login(ctx context.Context, password string) (string, bool) {
	ok, err := g.auth.Authenticate(ctx, password)
	if err != nil || !ok {
		return "", false
	}
	token := uuid.NewString()
	rec := Record{Authenticated: true, Timestamp: g.now().UnixMilli()}
	if err := g.store.Put(ctx, token, rec); err != nil {
		return "", false
	}
	return token, true
}

// Logout clears the session record unconditionally.
func (g *Gate) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	_ = g.store.Clear(ctx, token)
}
