package objstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	reviewpipe "github.com/heibot/reviewpipe"
)

// FSStore is a filesystem-backed object store. Buckets map to
// directories under the root; keys may contain slashes.
type FSStore struct {
	root string
}

// NewFSStore creates a store rooted at dir, creating it when absent.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, reviewpipe.NewCollaboratorError("objstore", "init", err)
	}
	return &FSStore{root: dir}, nil
}

// Get implements Store.
func (s *FSStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, bucket, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", reviewpipe.ErrNotFound, bucket, key)
	}
	if err != nil {
		return nil, reviewpipe.NewCollaboratorError("objstore", "get", err)
	}
	return data, nil
}

// Put implements Store. The write goes through a temp file and rename
// so a crashed put never leaves a truncated document behind.
func (s *FSStore) Put(_ context.Context, bucket, key string, data []byte) error {
	path := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return reviewpipe.NewCollaboratorError("objstore", "put", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return reviewpipe.NewCollaboratorError("objstore", "put", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return reviewpipe.NewCollaboratorError("objstore", "put", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return reviewpipe.NewCollaboratorError("objstore", "put", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return reviewpipe.NewCollaboratorError("objstore", "put", err)
	}
	return nil
}

// List implements Lister.
func (s *FSStore) List(_ context.Context, bucket, prefix string) ([]string, error) {
	base := filepath.Join(s.root, bucket)
	var keys []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, reviewpipe.NewCollaboratorError("objstore", "list", err)
	}
	sort.Strings(keys)
	return keys, nil
}
