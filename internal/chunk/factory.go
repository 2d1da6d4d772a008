package chunk

import (
	"fmt"

	"github.com/hupe1980/colscan/internal/offheap"
	"github.com/hupe1980/colscan/internal/resource"
)

// Config selects the memory backend for every store of a process.
// It is fixed when the Factory is built and never re-read.
type Config struct {
	// Unsafe places store contents in off-heap memory.
	Unsafe bool

	// Resources accounts off-heap allocations. May be nil.
	Resources *resource.Controller
}

// Spec describes one store to construct.
type Spec struct {
	// ValueSize is the byte width of each value; ignored for Variable.
	ValueSize int
	// HasInvertedIndex reports whether the page is explicitly sorted.
	HasInvertedIndex bool
	// RowCount is the number of values.
	RowCount int
	// TotalSize is the byte length of the encoded values.
	TotalSize int64
	// Kind is the value length kind.
	Kind Kind
}

// Factory constructs stores for the configured backend.
type Factory struct {
	cfg Config
}

// NewFactory creates a Factory. The configuration is captured once.
func NewFactory(cfg Config) *Factory {
	return &Factory{cfg: cfg}
}

// Unsafe reports whether the factory builds borrowed stores.
func (f *Factory) Unsafe() bool {
	return f.cfg.Unsafe
}

// New constructs an empty store for spec.
// Borrowed stores reserve their off-heap memory here; the caller must
// Release the returned store.
func (f *Factory) New(spec Spec) (Store, error) {
	if spec.RowCount < 0 {
		return nil, fmt.Errorf("chunk: negative row count %d", spec.RowCount)
	}
	if spec.Kind == Fixed && spec.ValueSize <= 0 {
		return nil, fmt.Errorf("chunk: fixed store needs a positive value size, got %d", spec.ValueSize)
	}
	if spec.TotalSize < 0 {
		return nil, fmt.Errorf("chunk: negative total size %d", spec.TotalSize)
	}

	if !f.cfg.Unsafe {
		switch spec.Kind {
		case Fixed:
			return newOwnedFixed(spec.ValueSize, spec.HasInvertedIndex, spec.RowCount), nil
		case Variable:
			return newOwnedVariable(spec.HasInvertedIndex, spec.RowCount), nil
		}
		return nil, fmt.Errorf("chunk: unknown kind %s", spec.Kind)
	}

	switch spec.Kind {
	case Fixed:
		buf, err := offheap.Allocate(borrowedFixedSize(spec.ValueSize, spec.HasInvertedIndex, spec.RowCount), f.cfg.Resources)
		if err != nil {
			return nil, err
		}
		return newBorrowedFixed(buf, spec.ValueSize, spec.HasInvertedIndex, spec.RowCount), nil
	case Variable:
		dataLen := int(spec.TotalSize)
		buf, err := offheap.Allocate(borrowedVariableSize(dataLen, spec.HasInvertedIndex, spec.RowCount), f.cfg.Resources)
		if err != nil {
			return nil, err
		}
		return newBorrowedVariable(buf, dataLen, spec.HasInvertedIndex, spec.RowCount), nil
	}
	return nil, fmt.Errorf("chunk: unknown kind %s", spec.Kind)
}
