// Package blobstore abstracts where fingerprint libraries and clustering
// results live.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, blobs are memory-mapped on Open
//   - MemoryStore: in-process map, for tests
//   - CachingStore: mirrors blobs of a remote store into a LocalStore
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// ReadAll and Get read whole blobs through the IO limiter of a
// resource.Controller, so a large library download can be throttled.
package blobstore
