// Package dictionary computes surrogate keys for direct-dictionary columns
// and encodes keys at a column's byte width.
//
// Direct-dictionary keys are derived from the value itself (timestamps and
// dates) instead of being looked up. Key 1 is reserved for null, so every
// non-null key is at least 2 and sorts after null in a page. Keys are encoded
// big-endian ("mask keys") so unsigned byte order equals key order.
package dictionary
