package utils

import (
	"sync"
	"testing"
)

func TestIDGenerator_NewID(t *testing.T) {
	g := NewIDGenerator()

	a := g.NewID()
	b := g.NewID()
	if len(a) != 26 {
		t.Errorf("NewID() length = %d, want 26", len(a))
	}
	if a == b {
		t.Error("NewID() returned duplicate IDs")
	}
	if b < a {
		t.Errorf("NewID() not monotonic: %s then %s", a, b)
	}
}

func TestIDGenerator_Concurrent(t *testing.T) {
	g := NewIDGenerator()

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- g.NewID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = struct{}{}
	}
}
