package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/hupe1980/butina/blobstore"
	"github.com/hupe1980/butina/blobstore/minio"
	"github.com/hupe1980/butina/blobstore/s3"
	"github.com/hupe1980/butina/fpfile"
)

// location is a parsed input or output reference.
type location struct {
	scheme string // "", "s3", "minio"
	bucket string
	name   string
}

func (l location) remote() bool {
	return l.scheme != ""
}

// parseLocation accepts a local path, s3://bucket/key or minio://bucket/key.
func parseLocation(ref string) (location, error) {
	if !strings.Contains(ref, "://") {
		if ref == "" {
			return location{}, fmt.Errorf("empty location")
		}
		return location{bucket: filepath.Dir(ref), name: filepath.Base(ref)}, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return location{}, fmt.Errorf("parse location %q: %w", ref, err)
	}

	switch u.Scheme {
	case "s3", "minio":
	default:
		return location{}, fmt.Errorf("unsupported scheme %q in %q", u.Scheme, ref)
	}

	name := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || name == "" {
		return location{}, fmt.Errorf("location %q needs a bucket and a key", ref)
	}

	return location{scheme: u.Scheme, bucket: u.Host, name: name}, nil
}

// open returns the blob store holding loc. Remote stores are fronted by a
// local cache when storage.cache_dir is configured.
func (a *app) open(ctx context.Context, loc location) (blobstore.BlobStore, error) {
	var (
		store blobstore.BlobStore
		err   error
	)

	switch loc.scheme {
	case "":
		return blobstore.NewLocalStore(loc.bucket), nil
	case "s3":
		store, err = s3.New(ctx, loc.bucket,
			s3.WithRegion(a.cfg.Storage.S3.Region),
			s3.WithEndpoint(a.cfg.Storage.S3.Endpoint),
		)
	case "minio":
		mc := a.cfg.Storage.MinIO
		if mc.Endpoint == "" {
			return nil, fmt.Errorf("minio location requires storage.minio.endpoint")
		}
		store, err = minio.Connect(mc.Endpoint, loc.bucket,
			minio.WithCredentials(mc.AccessKey, mc.SecretKey),
			minio.WithSecure(mc.Secure),
			minio.WithRegion(mc.Region),
		)
	}
	if err != nil {
		return nil, err
	}

	if a.cfg.Storage.CacheDir != "" {
		cache := blobstore.NewLocalStore(filepath.Join(a.cfg.Storage.CacheDir, loc.scheme, loc.bucket))
		store = blobstore.NewCachingStore(store, cache, a.rc)
	}

	return store, nil
}

// loadLibrary reads an FPS or BFP library from ref.
func (a *app) loadLibrary(ctx context.Context, ref string) (*fpfile.Library, error) {
	loc, err := parseLocation(ref)
	if err != nil {
		return nil, err
	}

	store, err := a.open(ctx, loc)
	if err != nil {
		return nil, err
	}

	r, err := blobstore.Reader(ctx, store, loc.name, a.rc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	defer func() { _ = r.Close() }()

	lib, err := fpfile.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}

	a.logger.Debug("library loaded", "source", ref, "fingerprints", lib.Len(), "num_bits", lib.Store.NumBits())

	return lib, nil
}

// save writes data to ref.
func (a *app) save(ctx context.Context, ref string, data []byte) error {
	loc, err := parseLocation(ref)
	if err != nil {
		return err
	}

	store, err := a.open(ctx, loc)
	if err != nil {
		return err
	}

	if err := store.Put(ctx, loc.name, data); err != nil {
		return fmt.Errorf("write %s: %w", ref, err)
	}

	a.logger.Debug("output written", "target", ref, "bytes", len(data))

	return nil
}

// encodeLibrary encodes lib as FPS when ref ends in .fps and as BFP otherwise.
func encodeLibrary(ref string, lib *fpfile.Library, compression fpfile.Compression) ([]byte, error) {
	var buf bytes.Buffer

	if strings.EqualFold(filepath.Ext(ref), ".fps") {
		if err := fpfile.WriteFPS(&buf, lib); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if err := fpfile.Encode(&buf, lib, func(o *fpfile.EncodeOptions) {
		o.Compression = compression
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
