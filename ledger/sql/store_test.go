package sql

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/heibot/reviewpipe/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Serialize access; the in-memory database does not tolerate
	// concurrent writers.
	db.SetMaxOpenConns(1)

	store := NewWithDB(db, DialectSQLite)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestStore_IncrementAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for want := int64(1); want <= 3; want++ {
		got, err := store.IncrementAndGet(ctx, "R1")
		if err != nil {
			t.Fatalf("IncrementAndGet() error = %v", err)
		}
		if got != want {
			t.Errorf("IncrementAndGet() = %d, want %d", got, want)
		}
	}
}

func TestStore_IncrementAndGetConcurrent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.IncrementAndGet(ctx, "R1"); err != nil {
				t.Errorf("IncrementAndGet() error = %v", err)
			}
		}()
	}
	wg.Wait()

	rec, err := store.GetRecord(ctx, "R1")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec == nil || rec.Count != n {
		t.Errorf("GetRecord() = %+v, want count %d", rec, n)
	}
}

func TestStore_SetFlag(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.IncrementAndGet(ctx, "R1"); err != nil {
		t.Fatalf("IncrementAndGet() error = %v", err)
	}
	if err := store.SetFlag(ctx, "R1", ledger.BanFlag, true); err != nil {
		t.Fatalf("SetFlag() error = %v", err)
	}
	// Re-setting to the same value is a no-op, not an error.
	if err := store.SetFlag(ctx, "R1", ledger.BanFlag, true); err != nil {
		t.Fatalf("SetFlag() repeat error = %v", err)
	}

	rec, err := store.GetRecord(ctx, "R1")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec == nil || !rec.Banned || rec.Count != 1 {
		t.Errorf("GetRecord() = %+v, want count 1 banned", rec)
	}
}

func TestStore_SetFlagCreatesRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.SetFlag(ctx, "R9", ledger.BanFlag, true); err != nil {
		t.Fatalf("SetFlag() error = %v", err)
	}

	rec, err := store.GetRecord(ctx, "R9")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec == nil || !rec.Banned || rec.Count != 0 {
		t.Errorf("GetRecord() = %+v, want count 0 banned", rec)
	}
}

func TestStore_SetFlagIgnoresUnknownName(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.SetFlag(ctx, "R1", "unknown_flag", true); err != nil {
		t.Fatalf("SetFlag() error = %v", err)
	}
	rec, err := store.GetRecord(ctx, "R1")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec != nil {
		t.Errorf("GetRecord() = %+v, want nil", rec)
	}
}

func TestStore_GetRecordMissing(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.GetRecord(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec != nil {
		t.Errorf("GetRecord() = %+v, want nil", rec)
	}
}

func TestLedgerOverSQLStore(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(newTestStore(t), 3)

	var banned bool
	for i := 0; i < 4; i++ {
		v, err := l.RecordViolation(ctx, "R1")
		if err != nil {
			t.Fatalf("RecordViolation() error = %v", err)
		}
		banned = v.Banned
	}
	if !banned {
		t.Error("RecordViolation() #4 banned = false, want true")
	}
}
