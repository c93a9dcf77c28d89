package objstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	reviewpipe "github.com/heibot/reviewpipe"
)

// MemoryStore is an in-process object store for tests and examples.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte // "<bucket>/<key>" -> data
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", reviewpipe.ErrNotFound, bucket, key)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, bucket, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[bucket+"/"+key] = stored
	return nil
}

// List implements Lister.
func (s *MemoryStore) List(_ context.Context, bucket, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	full := bucket + "/"
	var keys []string
	for name := range s.objects {
		if !strings.HasPrefix(name, full) {
			continue
		}
		key := strings.TrimPrefix(name, full)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
