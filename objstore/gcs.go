package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	reviewpipe "github.com/heibot/reviewpipe"
)

// GCSStore is a Google Cloud Storage backed object store. Bucket names
// are passed per call so one client serves every pipeline location.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore creates a store. An empty credentials path uses
// application default credentials.
func NewGCSStore(ctx context.Context, credentialsPath string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, reviewpipe.NewCollaboratorError("objstore", "init", err)
	}
	return &GCSStore{client: client}, nil
}

// NewGCSStoreWithClient wraps an existing client, e.g. one pointed at
// an emulator.
func NewGCSStoreWithClient(client *storage.Client) *GCSStore {
	return &GCSStore{client: client}
}

// Get implements Store.
func (s *GCSStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", reviewpipe.ErrNotFound, bucket, key)
	}
	if err != nil {
		return nil, reviewpipe.NewCollaboratorError("objstore", "get", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, reviewpipe.NewCollaboratorError("objstore", "get", err)
	}
	return data, nil
}

// Put implements Store.
func (s *GCSStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	w := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		w.Close()
		return reviewpipe.NewCollaboratorError("objstore", "put", err)
	}
	if err := w.Close(); err != nil {
		return reviewpipe.NewCollaboratorError("objstore", "put", err)
	}
	return nil
}

// List implements Lister.
func (s *GCSStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, reviewpipe.NewCollaboratorError("objstore", "list", err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
