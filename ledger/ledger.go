// Package ledger tracks cumulative per-author profanity violations and
// applies the ban threshold. The counter store is the only shared
// mutable resource in the pipeline; every backend must provide a
// linearizable increment-and-read per author key.
package ledger

import (
	"context"

	reviewpipe "github.com/heibot/reviewpipe"
)

// BanFlag is the flag name recording a banned author.
const BanFlag = "is_banned"

// CounterStore is the atomic counter collaborator. Implementations must
// guarantee per-key atomicity across concurrent callers: two concurrent
// increments for the same key must both be counted.
type CounterStore interface {
	// IncrementAndGet atomically increments the counter for key by
	// exactly 1 and returns the post-increment value in the same
	// operation. The record is created on first increment.
	IncrementAndGet(ctx context.Context, key string) (int64, error)

	// SetFlag sets a named boolean flag on the record. Setting a flag
	// to a value it already holds is a no-op.
	SetFlag(ctx context.Context, key, name string, value bool) error

	// GetRecord reads the current record, or nil when the author has no
	// recorded violations.
	GetRecord(ctx context.Context, key string) (*Record, error)
}

// Record is one author's violation state. The count is monotonically
// non-decreasing and the ban flag, once true, never resets.
type Record struct {
	Key    string
	Count  int64
	Banned bool
}

// Violation is the outcome of recording one violation.
type Violation struct {
	Count  int64
	Banned bool
}

// Ledger applies the configured ban threshold on top of a CounterStore.
type Ledger struct {
	store     CounterStore
	threshold int64
}

// New creates a ledger. A threshold of zero or less falls back to the
// default.
func New(store CounterStore, threshold int64) *Ledger {
	if threshold <= 0 {
		threshold = reviewpipe.DefaultBanThreshold
	}
	return &Ledger{store: store, threshold: threshold}
}

// Threshold returns the configured ban threshold.
func (l *Ledger) Threshold() int64 { return l.threshold }

// RecordViolation counts one violation for the author and applies the
// ban threshold: once the post-increment count reaches the threshold
// the ban flag is set, and it is never cleared here. Callers invoke
// this only for flagged reviews; clean reviews must not perturb the
// counter.
func (l *Ledger) RecordViolation(ctx context.Context, reviewerID string) (Violation, error) {
	count, err := l.store.IncrementAndGet(ctx, reviewerID)
	if err != nil {
		return Violation{}, &reviewpipe.CounterError{ReviewerID: reviewerID, Err: err}
	}

	v := Violation{Count: count}
	if count >= l.threshold {
		if err := l.store.SetFlag(ctx, reviewerID, BanFlag, true); err != nil {
			// The count is committed; the ban will be set by the next
			// violation. Surface the failure without losing the count.
			return v, &reviewpipe.CounterError{ReviewerID: reviewerID, Err: err}
		}
		v.Banned = true
	}
	return v, nil
}

// IsBanned reports whether the author is currently banned.
func (l *Ledger) IsBanned(ctx context.Context, reviewerID string) (bool, error) {
	rec, err := l.store.GetRecord(ctx, reviewerID)
	if err != nil {
		return false, &reviewpipe.CounterError{ReviewerID: reviewerID, Err: err}
	}
	return rec != nil && rec.Banned, nil
}
