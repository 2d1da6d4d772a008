package measure

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/compress"
	"github.com/shopspring/decimal"
)

// PlainInt stores int32 values without value transformation.
type PlainInt struct {
	holder[int32]
}

// NewPlainInt creates an int codec. A nil compressor uses compress.Default.
func NewPlainInt(c compress.Compressor, f *chunk.Factory) *PlainInt {
	return &PlainInt{holder: holder[int32]{
		compressor: orDefault(c),
		factory:    f,
		width:      4,
		encode:     func(dst []byte, v int32) { binary.BigEndian.PutUint32(dst, uint32(v)) },
		decode:     func(src []byte) int32 { return int32(binary.BigEndian.Uint32(src)) },
	}}
}

func (c *PlainInt) Decompress(data []byte, offset, length, _ int, _ any) error {
	return c.decompress(data, offset, length)
}

func (c *PlainInt) GetLong(index int) int64     { return int64(c.at(index)) }
func (c *PlainInt) GetDouble(index int) float64 { return float64(c.at(index)) }

func (c *PlainInt) GetDecimal(int) (decimal.Decimal, error) {
	return decimal.Decimal{}, fmt.Errorf("%w: decimal from %s codec", ErrUnsupportedValueKind, c.DataType())
}

func (c *PlainInt) DataType() DataType { return Int }

// PlainLong stores int64 values without value transformation.
type PlainLong struct {
	holder[int64]
}

// NewPlainLong creates a long codec. A nil compressor uses compress.Default.
func NewPlainLong(c compress.Compressor, f *chunk.Factory) *PlainLong {
	return &PlainLong{holder: holder[int64]{
		compressor: orDefault(c),
		factory:    f,
		width:      8,
		encode:     putInt64,
		decode:     getInt64,
	}}
}

func (c *PlainLong) Decompress(data []byte, offset, length, _ int, _ any) error {
	return c.decompress(data, offset, length)
}

func (c *PlainLong) GetLong(index int) int64     { return c.at(index) }
func (c *PlainLong) GetDouble(index int) float64 { return float64(c.at(index)) }

func (c *PlainLong) GetDecimal(int) (decimal.Decimal, error) {
	return decimal.Decimal{}, fmt.Errorf("%w: decimal from %s codec", ErrUnsupportedValueKind, c.DataType())
}

func (c *PlainLong) DataType() DataType { return Long }

// PlainDouble stores float64 values as their IEEE-754 bits.
type PlainDouble struct {
	holder[float64]
}

// NewPlainDouble creates a double codec. A nil compressor uses compress.Default.
func NewPlainDouble(c compress.Compressor, f *chunk.Factory) *PlainDouble {
	return &PlainDouble{holder: holder[float64]{
		compressor: orDefault(c),
		factory:    f,
		width:      8,
		encode:     func(dst []byte, v float64) { binary.BigEndian.PutUint64(dst, math.Float64bits(v)) },
		decode:     func(src []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(src)) },
	}}
}

func (c *PlainDouble) Decompress(data []byte, offset, length, _ int, _ any) error {
	return c.decompress(data, offset, length)
}

func (c *PlainDouble) GetLong(index int) int64     { return int64(c.at(index)) }
func (c *PlainDouble) GetDouble(index int) float64 { return c.at(index) }

func (c *PlainDouble) GetDecimal(index int) (decimal.Decimal, error) {
	v := c.at(index)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Decimal{}, fmt.Errorf("%w: %v has no decimal form", ErrUnsupportedValueKind, v)
	}
	return decimal.NewFromFloat(v), nil
}

func (c *PlainDouble) DataType() DataType { return Double }

func putInt64(dst []byte, v int64) { binary.BigEndian.PutUint64(dst, uint64(v)) }
func getInt64(src []byte) int64    { return int64(binary.BigEndian.Uint64(src)) }

func orDefault(c compress.Compressor) compress.Compressor {
	if c == nil {
		return compress.Default
	}
	return c
}

var (
	_ Codec = (*PlainInt)(nil)
	_ Codec = (*PlainLong)(nil)
	_ Codec = (*PlainDouble)(nil)
	_ Codec = (*ScaledDecimal)(nil)
)
