// Package filter evaluates range predicates against encoded dimension pages.
//
// An executor runs in four stages per block:
//
//   - PRUNE: IsScanRequired compares the operands with block statistics.
//   - READ: ReadBlocks loads the raw column chunk into a BlockChunkHolder.
//   - SCAN: ApplyFilter prunes pages with their statistics, decodes the rest
//     into chunk stores and binary searches them.
//   - RESULT: the per-page selections are returned as a bitmap.Group.
//
// Only dictionary encoded columns are scanned here. Other columns are handed
// to a RowEvaluator supplied by the caller.
package filter
