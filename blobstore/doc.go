// Package blobstore provides the storage abstraction for chunk files.
//
// A chunk file is written once and then read with random access: the reader
// fetches the trailer and footer first and then individual compressed pages.
// Store implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and embedding
//   - LocalStore: local filesystem, reads through a read-only mmap
//   - minio.Store: MinIO and other S3-compatible endpoints
//   - s3.Store: Amazon S3 with range reads and managed uploads
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Open must return an error satisfying errors.Is(err, ErrNotFound) for a
// missing blob.
package blobstore
