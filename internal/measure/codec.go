package measure

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/compress"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnsupportedValueKind is returned when a codec cannot produce the requested representation.
	ErrUnsupportedValueKind = errors.New("measure: unsupported value kind")
	// ErrNotDecompressed is the panic cause when values are read before Decompress.
	ErrNotDecompressed = errors.New("measure: codec not decompressed")
	// ErrInvalidInput is returned for malformed encoded input.
	ErrInvalidInput = errors.New("measure: invalid input")
)

// DataType is the physical type of a measure column.
type DataType uint8

const (
	Int DataType = iota
	Long
	Double
	Decimal
)

func (t DataType) String() string {
	switch t {
	case Int:
		return "int"
	case Long:
		return "long"
	case Double:
		return "double"
	case Decimal:
		return "decimal"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// Codec is the read side shared by all measure codecs.
type Codec interface {
	// Compress encodes the values set on the codec.
	Compress() ([]byte, error)

	// Decompress restores data[offset:offset+length]. decimalPlaces and
	// maxValue are used by codecs that need them and ignored otherwise.
	Decompress(data []byte, offset, length, decimalPlaces int, maxValue any) error

	GetLong(index int) int64
	GetDouble(index int) float64
	GetDecimal(index int) (decimal.Decimal, error)

	// RowCount returns the number of decompressed values.
	RowCount() int

	// Release frees the backing store.
	Release()

	DataType() DataType
}

// ByType returns an empty codec for dt.
func ByType(dt DataType, c compress.Compressor, f *chunk.Factory) (Codec, error) {
	switch dt {
	case Int:
		return NewPlainInt(c, f), nil
	case Long:
		return NewPlainLong(c, f), nil
	case Double:
		return NewPlainDouble(c, f), nil
	case Decimal:
		return NewScaledDecimal(c, f), nil
	default:
		return nil, fmt.Errorf("%w: data type %s", ErrUnsupportedValueKind, dt)
	}
}

type numeric interface {
	~int32 | ~int64 | ~float64
}

// holder carries the value array and the lazily built store of one codec.
type holder[T numeric] struct {
	compressor compress.Compressor
	factory    *chunk.Factory
	width      int
	encode     func(dst []byte, v T)
	decode     func(src []byte) T

	value []T
	store chunk.Store
}

func (h *holder[T]) SetValue(value []T) {
	h.value = value
}

func (h *holder[T]) Value() []T {
	return h.value
}

func (h *holder[T]) Compress() ([]byte, error) {
	raw := make([]byte, len(h.value)*h.width)
	for i, v := range h.value {
		h.encode(raw[i*h.width:], v)
	}
	out, err := h.compressor.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("measure: %s compress: %w", h.compressor.Name(), err)
	}
	return out, nil
}

func (h *holder[T]) decompress(data []byte, offset, length int) error {
	if h.store != nil {
		return chunk.ErrAlreadyPopulated
	}
	if offset < 0 || length < 0 || offset+length > len(data) {
		return fmt.Errorf("%w: range [%d, %d) outside %d bytes", ErrInvalidInput, offset, offset+length, len(data))
	}

	raw, err := h.compressor.Decompress(data[offset : offset+length])
	if err != nil {
		return fmt.Errorf("measure: %s decompress: %w", h.compressor.Name(), err)
	}
	if len(raw)%h.width != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidInput, len(raw), h.width)
	}

	rows := len(raw) / h.width
	store, err := h.factory.New(chunk.Spec{
		ValueSize: h.width,
		RowCount:  rows,
		TotalSize: int64(len(raw)),
		Kind:      chunk.Fixed,
	})
	if err != nil {
		return err
	}
	if err := store.Put(raw, nil); err != nil {
		store.Release()
		return err
	}
	h.store = store
	return nil
}

func (h *holder[T]) at(index int) T {
	if h.store == nil {
		panic(ErrNotDecompressed)
	}
	return h.decode(h.store.Get(index))
}

func (h *holder[T]) RowCount() int {
	if h.store == nil {
		return 0
	}
	return h.store.RowCount()
}

func (h *holder[T]) Release() {
	if h.store != nil {
		h.store.Release()
	}
}
