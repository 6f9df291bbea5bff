package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps session records in process memory. Suitable for a single
// server instance and for tests; production uses the Redis store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Get returns the record for token, or (nil, nil) if absent. A value that
// fails to parse is cleared and reported as absent.
func (s *MemoryStore) Get(ctx context.Context, token string) (*Record, error) {
	s.mu.RLock()
	raw, ok := s.records[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		_ = s.Clear(ctx, token)
		return nil, nil
	}
	return &rec, nil
}

// Put stores the record under token.
func (s *MemoryStore) Put(ctx context.Context, token string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records[token] = raw
	s.mu.Unlock()
	return nil
}

// Clear removes the record for token.
func (s *MemoryStore) Clear(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.records, token)
	s.mu.Unlock()
	return nil
}

// putRaw stores an arbitrary value for token, bypassing Record marshalling.
// Used by tests to simulate malformed stored sessions.
func (s *MemoryStore) putRaw(token string, raw []byte) {
	s.mu.Lock()
	s.records[token] = raw
	s.mu.Unlock()
}
