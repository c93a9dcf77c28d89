// Package firestore provides a Firestore-backed counter store. The
// increment runs inside a transaction, which gives the per-key
// linearizability the ban protocol requires.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	reviewpipe "github.com/heibot/reviewpipe"
	"github.com/heibot/reviewpipe/ledger"
)

// DefaultCollection is the default Firestore collection name.
const DefaultCollection = "reviewer_violations"

// Store implements ledger.CounterStore over Firestore.
type Store struct {
	client     *firestore.Client
	collection string
}

// New creates a store over an existing Firestore client. An empty
// collection name uses DefaultCollection.
func New(client *firestore.Client, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{client: client, collection: collection}
}

type record struct {
	Count  int64 `firestore:"violation_count"`
	Banned bool  `firestore:"is_banned"`
}

// IncrementAndGet implements ledger.CounterStore.
func (s *Store) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	ref := s.client.Collection(s.collection).Doc(key)

	var count int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		var rec record
		if snap != nil && snap.Exists() {
			if err := snap.DataTo(&rec); err != nil {
				return err
			}
		}
		rec.Count++
		count = rec.Count
		return tx.Set(ref, rec)
	})
	if err != nil {
		return 0, reviewpipe.NewCollaboratorError("counter", "increment", err)
	}
	return count, nil
}

// SetFlag implements ledger.CounterStore. Only the ban flag is stored.
func (s *Store) SetFlag(ctx context.Context, key, name string, value bool) error {
	if name != ledger.BanFlag {
		return nil
	}
	ref := s.client.Collection(s.collection).Doc(key)
	_, err := ref.Set(ctx, map[string]any{"is_banned": value}, firestore.MergeAll)
	if err != nil {
		return reviewpipe.NewCollaboratorError("counter", "set_flag", err)
	}
	return nil
}

// GetRecord implements ledger.CounterStore.
func (s *Store) GetRecord(ctx context.Context, key string) (*ledger.Record, error) {
	snap, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, reviewpipe.NewCollaboratorError("counter", "get", err)
	}

	var rec record
	if err := snap.DataTo(&rec); err != nil {
		return nil, reviewpipe.NewCollaboratorError("counter", "get", err)
	}
	return &ledger.Record{Key: key, Count: rec.Count, Banned: rec.Banned}, nil
}
