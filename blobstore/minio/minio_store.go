package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/butina/blobstore"
)

// Options configures Connect.
type Options struct {
	// Prefix is prepended to every key (e.g. "libraries/").
	Prefix string

	AccessKey string
	SecretKey string

	// Secure enables HTTPS.
	Secure bool

	Region string

	// ContentType is attached to uploaded objects.
	ContentType string
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) func(*Options) {
	return func(o *Options) { o.Prefix = prefix }
}

// WithCredentials sets static V4 credentials.
func WithCredentials(accessKey, secretKey string) func(*Options) {
	return func(o *Options) {
		o.AccessKey = accessKey
		o.SecretKey = secretKey
	}
}

// WithSecure enables or disables TLS.
func WithSecure(secure bool) func(*Options) {
	return func(o *Options) { o.Secure = secure }
}

// WithRegion sets the bucket region.
func WithRegion(region string) func(*Options) {
	return func(o *Options) { o.Region = region }
}

// Store implements blobstore.BlobStore for MinIO and S3-compatible storage.
type Store struct {
	client      *minio.Client
	bucket      string
	prefix      string
	contentType string
}

// Connect creates a client for endpoint and wraps it in a Store.
func Connect(endpoint, bucket string, optFns ...func(*Options)) (*Store, error) {
	opts := Options{ContentType: "application/octet-stream"}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: connect %s: %w", endpoint, err)
	}

	s := NewStore(client, bucket, opts.Prefix)
	s.contentType = opts.ContentType
	return s, nil
}

// NewStore creates a new MinIO blob store.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all keys (e.g. "libraries/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client:      client,
		bucket:      bucket,
		prefix:      rootPrefix,
		contentType: "application/octet-stream",
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open opens an existing blob for reading.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)

	// Stat verifies existence and fetches the size.
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	return &minioBlob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		size:   info.Size,
	}, nil
}

// Put writes a blob atomically.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: s.contentType})
	return err
}

// Delete removes a blob.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// List returns all blob names with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(strings.TrimPrefix(obj.Key, s.prefix), "/")
		if name != "" {
			names = append(names, name)
		}
	}

	slices.Sort(names)
	return names, nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// span clamps a read of length bytes at off to a blob of size bytes and
// returns the inclusive end offset. ok is false when nothing can be read.
func span(off, length, size int64) (end int64, ok bool) {
	if off < 0 || off >= size || length <= 0 {
		return 0, false
	}
	return min(off+length, size) - 1, true
}

// minioBlob implements blobstore.Blob for MinIO.
type minioBlob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (b *minioBlob) Size() int64 {
	return b.size
}

func (b *minioBlob) get(ctx context.Context, off, end int64) (*minio.Object, error) {
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, end); err != nil {
		return nil, err
	}
	return b.client.GetObject(ctx, b.bucket, b.key, opts)
}

func (b *minioBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 && off >= 0 && off < b.size {
		return 0, nil
	}
	end, ok := span(off, int64(len(p)), b.size)
	if !ok {
		return 0, io.EOF
	}

	obj, err := b.get(ctx, off, end)
	if err != nil {
		return 0, err
	}
	defer func() { _ = obj.Close() }()

	want := int(end - off + 1)
	n, err := io.ReadFull(obj, p[:want])
	if err != nil {
		return n, err
	}
	if want < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *minioBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	end, ok := span(off, length, b.size)
	if !ok {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return b.get(ctx, off, end)
}

func (b *minioBlob) Close() error {
	return nil
}
