package idempotency

import (
	"context"
	"sync"
	"time"

	"rentalhub/internal/domain/service"

	"github.com/google/uuid"
)

type memoryEntry struct {
	orderID   uuid.UUID // Nil while the key is reserved.
	expiresAt time.Time
}

// MemoryStore implements service.IdempotencyStore for a single process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.entries[key]; ok && now.Before(entry.expiresAt) {
		if entry.orderID == uuid.Nil {
			return uuid.Nil, service.ErrIdempotencyKeyInFlight
		}

		return entry.orderID, nil
	}
	s.entries[key] = memoryEntry{expiresAt: now.Add(ttl)}

	return uuid.Nil, nil
}

func (s *MemoryStore) Complete(_ context.Context, key string, orderID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{orderID: orderID, expiresAt: s.now().Add(ttl)}

	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && entry.orderID == uuid.Nil {
		delete(s.entries, key)
	}

	return nil
}
