package blobstore

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/butina/internal/resource"
)

// CachingStore mirrors blobs of a remote store into a local directory.
//
// The first Open of a name downloads the whole blob through the IO limiter
// and stores it in the local store; later Opens map the local copy. Writes
// go to the remote store and drop the local copy.
type CachingStore struct {
	remote BlobStore
	local  *LocalStore
	rc     *resource.Controller
	group  singleflight.Group
}

// NewCachingStore creates a CachingStore. rc may be nil.
func NewCachingStore(remote BlobStore, local *LocalStore, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		remote: remote,
		local:  local,
		rc:     rc,
	}
}

// Open opens the local copy of name, fetching it first if needed.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.local.Open(ctx, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Concurrent misses for one name share a single download.
	_, err, _ = s.group.Do(name, func() (any, error) {
		data, err := Get(ctx, s.remote, name, s.rc)
		if err != nil {
			return nil, err
		}
		return nil, s.local.Put(ctx, name, data)
	})
	if err != nil {
		return nil, err
	}

	return s.local.Open(ctx, name)
}

// Put writes to the remote store and drops the local copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.local.Delete(ctx, name); err != nil {
		return err
	}
	return s.remote.Put(ctx, name, data)
}

// Delete removes the blob from both stores.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	if err := s.local.Delete(ctx, name); err != nil {
		return err
	}
	return s.remote.Delete(ctx, name)
}

// List lists the remote store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.remote.List(ctx, prefix)
}
