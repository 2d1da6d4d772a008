// Package resource governs process-wide resources for block scans.
//
// The Controller manages three resource types:
//
//   - Memory: off-heap bytes held by borrowed chunk stores (non-blocking, fail-fast)
//   - Concurrency: worker slots for parallel block scans
//   - IO: rate limit for raw chunk reads from a blob store
//
// # Memory
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(size)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
