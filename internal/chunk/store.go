package chunk

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hupe1980/colscan/internal/offheap"
)

var (
	// ErrAlreadyPopulated is returned when Put is called twice on a store.
	ErrAlreadyPopulated = errors.New("chunk: store already populated")
	// ErrNotPopulated is the panic cause when a store is read before Put.
	ErrNotPopulated = errors.New("chunk: store not populated")
	// ErrInvalidData is returned when Put receives data that does not match the store shape.
	ErrInvalidData = errors.New("chunk: invalid data")
)

// RowOutOfRangeError is the panic value for a row outside [0, RowCount).
type RowOutOfRangeError struct {
	Row      int
	RowCount int
}

func (e *RowOutOfRangeError) Error() string {
	return fmt.Sprintf("chunk: row %d out of range [0, %d)", e.Row, e.RowCount)
}

// Kind is the value length kind of a store.
type Kind uint8

const (
	// Fixed stores values of one byte width.
	Fixed Kind = iota
	// Variable stores length-prefixed values.
	Variable
)

func (k Kind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Variable:
		return "variable"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Backend is the memory backend of a store.
type Backend uint8

const (
	// Owned stores keep a private copy on the Go heap.
	Owned Backend = iota
	// Borrowed stores keep their bytes in off-heap memory.
	Borrowed
)

func (b Backend) String() string {
	switch b {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	default:
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
}

// Store holds the decoded values of one column page.
type Store interface {
	// Put populates the store. data holds RowCount values; inverted is the
	// sorted-to-physical permutation and must be nil unless the store was
	// created with HasInvertedIndex.
	Put(data []byte, inverted []int32) error

	// Get returns the value at a physical row. The slice must not be modified
	// and must not be retained past Release.
	Get(row int) []byte

	// Compare compares the value at a physical row with key in unsigned
	// lexicographic byte order.
	Compare(row int, key []byte) int

	// InvertedIndex maps a sorted position to its physical row.
	// Without an inverted index it is the identity.
	InvertedIndex(sorted int) int

	// IsExplicitSorted reports whether the store carries an inverted index.
	IsExplicitSorted() bool

	// RowCount returns the number of rows.
	RowCount() int

	// ValueSize returns the fixed value width, or 0 for variable-width stores.
	ValueSize() int

	Kind() Kind
	Backend() Backend

	// Release frees any off-heap memory. It is safe to call more than once.
	// Reads after Release panic with an error wrapping
	// offheap.ErrUseAfterRelease, on either backend.
	Release()
}

// base carries state shared by every variant.
type base struct {
	rowCount    int
	hasInverted bool
	populated   bool
	released    bool
}

func (b *base) RowCount() int          { return b.rowCount }
func (b *base) IsExplicitSorted() bool { return b.hasInverted }

func (b *base) beginPut(inverted []int32) error {
	if b.released {
		return fmt.Errorf("chunk: put: %w", offheap.ErrUseAfterRelease)
	}
	if b.populated {
		return ErrAlreadyPopulated
	}
	if b.hasInverted {
		if len(inverted) != b.rowCount {
			return fmt.Errorf("%w: inverted index has %d entries, want %d", ErrInvalidData, len(inverted), b.rowCount)
		}
		for _, row := range inverted {
			if row < 0 || int(row) >= b.rowCount {
				return fmt.Errorf("%w: inverted index entry %d out of range", ErrInvalidData, row)
			}
		}
	} else if inverted != nil {
		return fmt.Errorf("%w: inverted index given to a store without one", ErrInvalidData)
	}
	return nil
}

func (b *base) checkRow(row int) {
	if b.released {
		panic(fmt.Errorf("chunk: read row %d: %w", row, offheap.ErrUseAfterRelease))
	}
	if !b.populated {
		panic(ErrNotPopulated)
	}
	if row < 0 || row >= b.rowCount {
		panic(&RowOutOfRangeError{Row: row, RowCount: b.rowCount})
	}
}

func compare(value, key []byte) int {
	return bytes.Compare(value, key)
}
