package ledger

import (
	"context"
	"sync"
)

// MemoryStore is an in-process CounterStore for tests and single-node
// deployments. Increments are serialized by a mutex, which satisfies
// the per-key linearizability contract.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// IncrementAndGet implements CounterStore.
func (s *MemoryStore) IncrementAndGet(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		rec = &Record{Key: key}
		s.records[key] = rec
	}
	rec.Count++
	return rec.Count, nil
}

// SetFlag implements CounterStore.
func (s *MemoryStore) SetFlag(_ context.Context, key, name string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		rec = &Record{Key: key}
		s.records[key] = rec
	}
	if name == BanFlag {
		rec.Banned = value
	}
	return nil
}

// GetRecord implements CounterStore.
func (s *MemoryStore) GetRecord(_ context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	copy := *rec
	return &copy, nil
}
