// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "chem-data", s3.WithPrefix("libraries/"))
//	data, err := blobstore.Get(ctx, store, "chembl.bfp", rc)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads with CRC32C checksums for large results
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
