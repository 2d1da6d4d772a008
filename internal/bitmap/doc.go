// Package bitmap holds filter results.
//
// A RowSelection has one bit per physical row of a page. A Group holds one
// RowSelection per page of a block, in page order; pages that were pruned
// keep an all-zero selection of their row count. Groups from different
// predicates over the same block combine with And/Or, and Flatten turns a
// group into block-wide row ids in a Roaring bitmap.
package bitmap
