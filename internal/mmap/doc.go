// Package mmap provides memory mappings for chunk files and off-heap buffers.
//
// # Overview
//
// Two kinds of mapping are supported:
//
//   - Open maps a chunk file read-only for zero-copy page access.
//   - MapAnon creates a private read-write anonymous mapping. Anonymous
//     mappings live outside the Go heap and back the borrowed chunk stores.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile and VirtualAlloc (madvise is a no-op)
//
// # Thread Safety
//
// Mapping is safe for concurrent read access. Close is idempotent and
// protected by an atomic flag. Callers must ensure no goroutine touches
// the slice returned by Bytes after Close returns.
package mmap
