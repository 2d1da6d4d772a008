package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ifs "github.com/hupe1980/colscan/internal/fs"
)

func testStoreLifecycle(t *testing.T, store Store) {
	ctx := t.Context()
	data := []byte("chunk file with pages and a footer")

	_, err := store.Open(ctx, "block-0.chunk")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "block-0.chunk", data))
	require.NoError(t, store.Put(ctx, "block-1.chunk", []byte("x")))
	require.NoError(t, store.Put(ctx, "other", []byte("y")))

	blob, err := store.Open(ctx, "block-0.chunk")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "file ", string(buf))

	buf = make([]byte, 10)
	n, err = blob.ReadAt(ctx, buf, int64(len(data)-4))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 4, n)

	_, err = blob.ReadAt(ctx, buf, int64(len(data)))
	assert.ErrorIs(t, err, io.EOF)

	names, err := store.List(ctx, "block-")
	require.NoError(t, err)
	assert.Equal(t, []string{"block-0.chunk", "block-1.chunk"}, names)

	require.NoError(t, store.Delete(ctx, "block-1.chunk"))
	require.NoError(t, store.Delete(ctx, "block-1.chunk"))

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"block-0.chunk", "other"}, names)
}

func TestMemoryStore(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	testStoreLifecycle(t, NewLocalStore(dir))

	_, err := os.Stat(filepath.Join(dir, "block-0.chunk"))
	require.NoError(t, err)
}

func TestLocalStore_NestedNames(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := t.Context()

	require.NoError(t, store.Put(ctx, "seg/1/block-0.chunk", []byte("abc")))
	names, err := store.List(ctx, "seg/")
	require.NoError(t, err)
	assert.Equal(t, []string{"seg/1/block-0.chunk"}, names)
}

func TestLocalStore_FailedPutLeavesNoFile(t *testing.T) {
	faults := map[string]ifs.Fault{
		"write":  {FailAfterBytes: 3},
		"sync":   {FailAfterBytes: -1, FailOnSync: true},
		"close":  {FailAfterBytes: -1, FailOnClose: true},
		"rename": {FailAfterBytes: -1, FailOnRename: true},
	}
	for name, fault := range faults {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			dir := t.TempDir()
			ffs := ifs.NewFaultyFS(nil)
			ffs.AddRule("broken", fault)
			store := NewLocalStore(dir, WithFileSystem(ffs))

			require.NoError(t, store.Put(ctx, "healthy", []byte("ok")))

			err := store.Put(ctx, "broken", []byte("chunk bytes"))
			require.ErrorIs(t, err, ifs.ErrInjected)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "healthy", entries[0].Name())

			_, err = store.Open(ctx, "broken")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(t.Context(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMappable(t *testing.T) {
	ctx := t.Context()
	for name, store := range map[string]Store{
		"memory": NewMemoryStore(),
		"local":  NewLocalStore(t.TempDir()),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "a", []byte("mapped")))
			blob, err := store.Open(ctx, "a")
			require.NoError(t, err)

			m, ok := blob.(Mappable)
			require.True(t, ok)
			b, err := m.Bytes()
			require.NoError(t, err)
			assert.Equal(t, "mapped", string(b))
			require.NoError(t, blob.Close())
		})
	}
}

func TestMemoryStore_PutCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()
	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "a", data))
	data[0] = 'z'

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf))
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "a", nil), context.Canceled)
	_, err := store.Open(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReaderAt(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()
	require.NoError(t, store.Put(ctx, "a", []byte("0123456789")))
	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)

	r := io.NewSectionReader(ReaderAt(ctx, blob), 2, 4)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "2345", string(got))
}

func TestTrimRoot(t *testing.T) {
	assert.Equal(t, "a/b", TrimRoot("root/a/b", "root"))
	assert.Equal(t, "a/b", TrimRoot("root/a/b", "root/"))
	assert.Equal(t, "a/b", TrimRoot("a/b", ""))
}
