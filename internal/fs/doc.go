// Package fs abstracts the file operations of the local blob store so tests
// can inject failures.
//
//   - [LocalFS]: the os-backed implementation, available as [Default]
//   - [FaultyFS]: wraps another FileSystem and fails writes, syncs, closes
//     or renames of matching files
//
// Tests inject a [FaultyFS] to check that a failed publish leaves no
// partial chunk file behind:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("block-3", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
package fs
