package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	reviewpipe "github.com/heibot/reviewpipe"
)

func TestLedger_RecordViolation(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore(), 3)

	want := []struct {
		count  int64
		banned bool
	}{
		{1, false},
		{2, false},
		{3, true},
		{4, true}, // stays banned past the threshold
	}

	for i, w := range want {
		v, err := l.RecordViolation(ctx, "R1")
		if err != nil {
			t.Fatalf("RecordViolation() #%d error = %v", i+1, err)
		}
		if v.Count != w.count || v.Banned != w.banned {
			t.Errorf("RecordViolation() #%d = {%d %v}, want {%d %v}",
				i+1, v.Count, v.Banned, w.count, w.banned)
		}
	}
}

func TestLedger_AuthorsAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore(), 3)

	for i := 0; i < 3; i++ {
		if _, err := l.RecordViolation(ctx, "R1"); err != nil {
			t.Fatalf("RecordViolation(R1) error = %v", err)
		}
	}

	v, err := l.RecordViolation(ctx, "R2")
	if err != nil {
		t.Fatalf("RecordViolation(R2) error = %v", err)
	}
	if v.Count != 1 || v.Banned {
		t.Errorf("RecordViolation(R2) = {%d %v}, want {1 false}", v.Count, v.Banned)
	}

	banned, err := l.IsBanned(ctx, "R1")
	if err != nil {
		t.Fatalf("IsBanned(R1) error = %v", err)
	}
	if !banned {
		t.Error("IsBanned(R1) = false, want true")
	}
}

func TestLedger_ConcurrentViolationsAllCounted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := New(store, 1000)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.RecordViolation(ctx, "R1"); err != nil {
				t.Errorf("RecordViolation() error = %v", err)
			}
		}()
	}
	wg.Wait()

	rec, err := store.GetRecord(ctx, "R1")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec == nil || rec.Count != n {
		t.Errorf("GetRecord().Count = %v, want %d", rec, n)
	}
}

func TestLedger_DefaultThreshold(t *testing.T) {
	l := New(NewMemoryStore(), 0)
	if l.Threshold() != reviewpipe.DefaultBanThreshold {
		t.Errorf("Threshold() = %d, want %d", l.Threshold(), reviewpipe.DefaultBanThreshold)
	}
}

func TestLedger_IsBannedUnknownAuthor(t *testing.T) {
	l := New(NewMemoryStore(), 3)

	banned, err := l.IsBanned(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("IsBanned() error = %v", err)
	}
	if banned {
		t.Error("IsBanned() = true for unknown author, want false")
	}
}

type failingStore struct{ err error }

func (f failingStore) IncrementAndGet(context.Context, string) (int64, error) { return 0, f.err }
func (f failingStore) SetFlag(context.Context, string, string, bool) error    { return f.err }
func (f failingStore) GetRecord(context.Context, string) (*Record, error)     { return nil, f.err }

func TestLedger_RecordViolationWrapsCounterError(t *testing.T) {
	l := New(failingStore{err: errors.New("down")}, 3)

	_, err := l.RecordViolation(context.Background(), "R1")
	var ce *reviewpipe.CounterError
	if !errors.As(err, &ce) {
		t.Fatalf("RecordViolation() error = %T, want *reviewpipe.CounterError", err)
	}
	if ce.ReviewerID != "R1" {
		t.Errorf("CounterError.ReviewerID = %q, want R1", ce.ReviewerID)
	}
}
