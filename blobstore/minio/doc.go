// Package minio provides a blobstore.Store for MinIO and other
// S3-compatible object stores using minio-go.
//
// Usage:
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
//	})
//	store := colminio.NewStore(client, "tables", "warehouse/")
//	reader, err := rawchunk.OpenFile(ctx, store, "block-0.chunk")
package minio
