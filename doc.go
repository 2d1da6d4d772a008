// Package colscan evaluates range filters over dictionary-encoded columnar
// data.
//
// A block holds one raw column chunk per dimension column. Each chunk is a
// list of pages whose values are fixed-width or length-prefixed byte
// strings compared as unsigned bytes. Pages may be explicitly sorted, in
// which case an inverted index maps sorted positions back to physical rows.
//
// # Quick Start
//
//	s, _ := colscan.New(colscan.WithUnsafe(true), colscan.WithParallelism(4))
//
//	column := colscan.ColumnInfo{
//	    Ordinal:   0,
//	    ValueSize: 2,
//	    Encodings: colscan.Dictionary,
//	}
//	segment := colscan.SegmentProperties{OrdinalToBlock: map[int]int{0: 0}}
//
//	f, _ := s.LessThanEqual(column, segment, operands, nil)
//	results, _ := s.ScanBlocks(ctx, f, blocks)
//	for _, r := range results {
//	    fmt.Println(r.Pruned, r.Rows().ToArray())
//	}
//
// # Pruning
//
// A block or page is skipped when its minimum is greater than every
// operand. The maximum never matters for a less-than-or-equal filter.
//
// # Memory
//
// WithUnsafe(true) decodes pages into off-heap memory mapped outside the Go
// heap. Every decoded page is released when its scan finishes, on every
// path. WithMemoryLimit caps the off-heap bytes held at once.
//
// # Storage
//
// Chunk files are read from a blobstore.Store: in memory, on local disk, in
// MinIO or in Amazon S3.
//
//	store := blobstore.NewLocalStore("/data/chunks")
//	r, _ := s.OpenChunkFile(ctx, store, "block-0.chunk")
//	defer r.Close()
//	blocks := []colscan.Block{{Reader: r, Columns: r.ColumnCount()}}
//
// WithBlockCache keeps recently read column chunks in memory, shared by
// every reader the scanner opens. Cached bytes count against the memory
// limit.
package colscan
