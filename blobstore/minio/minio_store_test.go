package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/butina/blobstore"
)

func TestSpan(t *testing.T) {
	tests := []struct {
		name            string
		off, length, sz int64
		wantEnd         int64
		wantOK          bool
	}{
		{"inside", 2, 3, 10, 4, true},
		{"clamped", 7, 100, 10, 9, true},
		{"at end", 10, 1, 10, 0, false},
		{"negative offset", -1, 1, 10, 0, false},
		{"zero length", 0, 0, 10, 0, false},
		{"empty blob", 0, 1, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, ok := span(tt.off, tt.length, tt.sz)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}

func TestConnect(t *testing.T) {
	s, err := Connect("localhost:9000", "libs", WithPrefix("chembl/"), WithCredentials("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "chembl/lib.bfp", s.key("lib.bfp"))
	assert.Equal(t, "application/octet-stream", s.contentType)
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	const bucket = "test-butina"

	store, err := Connect("localhost:9000", bucket,
		WithCredentials("minioadmin", "minioadmin"),
		WithPrefix("test-prefix/"),
	)
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err = store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("#num_bits=16\nff00\tmol1\n")
	require.NoError(t, store.Put(ctx, "lib.fps", data))

	blob, err := store.Open(ctx, "lib.fps")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	rc, err := blob.ReadRange(ctx, 1, 8)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "num_bits", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	got, err := blobstore.Get(ctx, store, "lib.fps", nil)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "lib.fps")

	require.NoError(t, store.Delete(ctx, "lib.fps"))

	_, err = store.Open(ctx, "lib.fps")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
