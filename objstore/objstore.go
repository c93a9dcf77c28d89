// Package objstore defines the durable object storage collaborator
// that holds raw, intermediate, and final review documents, keyed by
// deterministic identifiers.
package objstore

import "context"

// Store is the object store contract the pipeline consumes. Get
// returns reviewpipe.ErrNotFound (wrapped) for absent keys; any other
// failure is a transient collaborator error.
type Store interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte) error
}

// Lister is an optional extension for backends that can enumerate
// keys, used by batch tooling to walk a bucket.
type Lister interface {
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}
