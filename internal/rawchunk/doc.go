// Package rawchunk holds the raw, still compressed pages of one dimension
// column within a block and turns them into chunk stores on demand.
//
// A ColumnChunk is what a reader returns for a block index: page row counts,
// optional per-page min/max statistics and the compressed page payloads. The
// filter stage prunes with the statistics first and decodes only the pages it
// scans (ConvertToStore).
//
// Chunk files persist the column chunks of one block:
//
//	[page payloads...][footer][footer length uint32][magic uint32]
//
// The footer starts with the name of the codec that serialized it, followed
// by the serialized column and page metadata. Integers in the trailer and the
// inverted index payloads are little-endian.
package rawchunk
