// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible systems (Ceph, SeaweedFS,
// Garage) without pulling in the AWS SDK, which makes it the usual choice
// for on-premises fingerprint libraries.
//
// # Basic Usage
//
//	store, err := minioblob.Connect("localhost:9000", "libraries",
//	    minioblob.WithCredentials("minioadmin", "minioadmin"),
//	    minioblob.WithPrefix("chembl/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := blobstore.Get(ctx, store, "chembl_33.bfp", nil)
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
