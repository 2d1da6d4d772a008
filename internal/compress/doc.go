// Package compress provides the byte compressors used for chunk pages and
// measure values.
//
// All compressors are safe for concurrent use. Compressors are selected by
// their stable name, which chunk files record in their footer:
//
//	c, err := compress.ByName("snappy")
//
// Built-in compressors: "none", "snappy" (default), "lz4", "zstd".
package compress
