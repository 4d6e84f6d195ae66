package blobstore

import (
	"bytes"
	"context"
	"io"

	"github.com/hupe1980/butina/internal/resource"
)

// ReadAll reads the whole blob through rc's IO limiter. rc may be nil.
// Mappable blobs are copied straight from their mapping when unthrottled.
func ReadAll(ctx context.Context, b Blob, rc *resource.Controller) ([]byte, error) {
	if m, ok := b.(Mappable); ok && rc.IOLimit() == 0 {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return bytes.Clone(data), nil
	}

	body, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	buf := bytes.NewBuffer(make([]byte, 0, b.Size()))
	if _, err := buf.ReadFrom(resource.NewRateLimitedReader(ctx, body, rc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Get opens name in s and reads it whole.
func Get(ctx context.Context, s BlobStore, name string, rc *resource.Controller) ([]byte, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	return ReadAll(ctx, b, rc)
}

// Reader opens name and returns a rate-limited reader over it.
// Closing the reader closes the blob.
func Reader(ctx context.Context, s BlobStore, name string, rc *resource.Controller) (io.ReadCloser, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	body, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	return &blobReader{
		Reader: resource.NewRateLimitedReader(ctx, body, rc),
		body:   body,
		blob:   b,
	}, nil
}

type blobReader struct {
	io.Reader
	body io.Closer
	blob Blob
}

func (r *blobReader) Close() error {
	err := r.body.Close()
	if cerr := r.blob.Close(); err == nil {
		err = cerr
	}
	return err
}
