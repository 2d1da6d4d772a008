// Package chunk holds the decoded values of one column page.
//
// A Store answers positional queries (Get, Compare) and maps sorted
// positions to physical rows through an optional inverted index. Stores come
// in four variants: owned or borrowed memory, fixed or variable value width.
// Owned stores keep a private copy on the Go heap. Borrowed stores keep
// their bytes in an off-heap buffer that must be released explicitly.
//
// The variant is chosen once by a Factory built from the process Config:
//
//	f := chunk.NewFactory(chunk.Config{Unsafe: true, Resources: rc})
//	s, err := f.New(chunk.Spec{Kind: chunk.Fixed, ValueSize: 4, RowCount: n, TotalSize: int64(4 * n)})
//	if err != nil { ... }
//	defer s.Release()
//	if err := s.Put(data, nil); err != nil { ... }
//
// Put is the only mutation; a populated store is read-only and may be read
// concurrently until Release.
//
// # Variable-width layout
//
// Variable-width data is a sequence of values, each prefixed by its length
// as a 2-byte big-endian integer. The store derives its offset table from
// the prefixes during Put.
package chunk
