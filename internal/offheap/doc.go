// Package offheap provides single-owner buffers backed by anonymous memory
// mappings.
//
// A Buffer lives outside the Go heap: the garbage collector never reclaims
// it. The owner must call Release exactly once on every exit path; further
// calls are no-ops. Reading a released buffer panics with an error wrapping
// ErrUseAfterRelease.
//
// Allocations are charged against an optional resource.Controller so that
// the process can cap the off-heap footprint of concurrent scans.
package offheap
