package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]memoryEntry
}

type memoryEntry struct {
	userID int64
	exp    time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Issue(_ context.Context, userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	token := uuid.NewString()

	s.mu.Lock()
	s.m[token] = memoryEntry{userID: userID, exp: time.Now().Add(ttl)}
	s.mu.Unlock()

	return token, nil
}

func (s *MemoryStore) Resolve(_ context.Context, token string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[token]

	if !ok {
		return 0, false, nil
	}

	if time.Now().After(e.exp) {
		delete(s.m, token)
		return 0, false, nil
	}

	return e.userID, true, nil
}

func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()

	return nil
}
