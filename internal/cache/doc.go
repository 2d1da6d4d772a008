// Package cache keeps recently read column-chunk bytes in memory.
//
// Repeated scans of the same chunk files read the same column ranges. The
// ShardedLRUBlockCache holds those ranges keyed by file, file size and
// block index, using 64-way sharding so concurrent block scans rarely
// contend on a lock. Cached bytes are charged to the resource controller,
// so the cache shares the memory budget with off-heap stores.
package cache
