package offheap

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/colscan/internal/mmap"
	"github.com/hupe1980/colscan/internal/resource"
)

// ErrUseAfterRelease is the panic cause when a released buffer is accessed.
var ErrUseAfterRelease = errors.New("offheap: use after release")

// Buffer is a fixed-size off-heap byte buffer.
type Buffer struct {
	mapping  *mmap.Mapping
	rc       *resource.Controller
	size     int
	released atomic.Bool
}

// Allocate maps size bytes of anonymous memory, charging them to rc.
// rc may be nil.
func Allocate(size int, rc *resource.Controller) (*Buffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("offheap: invalid size %d", size)
	}

	if err := rc.AcquireMemory(int64(size)); err != nil {
		return nil, fmt.Errorf("offheap: reserve %d bytes: %w", size, err)
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		rc.ReleaseMemory(int64(size))
		return nil, fmt.Errorf("offheap: map %d bytes: %w", size, err)
	}

	return &Buffer{
		mapping: mapping,
		rc:      rc,
		size:    size,
	}, nil
}

// Bytes returns the buffer contents.
// The slice must not be retained past Release.
func (b *Buffer) Bytes() []byte {
	if b.released.Load() {
		panic(fmt.Errorf("%w: buffer of %d bytes", ErrUseAfterRelease, b.size))
	}
	return b.mapping.Bytes()
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.released.Load()
}

// Release unmaps the buffer and returns its bytes to the memory budget.
// Only the first call has an effect.
func (b *Buffer) Release() error {
	if b == nil || b.released.Swap(true) {
		return nil
	}
	err := b.mapping.Close()
	b.rc.ReleaseMemory(int64(b.size))
	return err
}
