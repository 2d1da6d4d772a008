package cache

import "context"

// Key identifies the raw bytes of one column chunk in a chunk file.
type Key struct {
	File  string
	Size  int64
	Block int
}

// BlockCache is a byte-oriented cache for immutable chunk-file ranges.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. The cache retains b; callers must not modify it.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Stats returns hit and miss counts.
	Stats() (hits, misses int64)
}
