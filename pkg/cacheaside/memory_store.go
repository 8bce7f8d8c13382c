package cacheaside

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	blob      []byte
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of Store.
// Used as fallback when Valkey is not enabled.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.blob, true, nil
}

func (s *MemoryStore) SetWithTTL(ctx context.Context, key string, blob []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(blob))
	copy(cp, blob)
	s.entries[key] = memoryEntry{blob: cp, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Cleanup removes all expired entries.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// StartCleanup evicts expired entries every interval until ctx is done.
func (s *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// TTL returns the remaining lifetime of key, or zero when absent.
func (s *MemoryStore) TTL(key string) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0
	}
	if d := entry.expiresAt.Sub(s.now()); d > 0 {
		return d
	}
	return 0
}
