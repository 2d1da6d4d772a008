package measure

import (
	"fmt"
	"math"

	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/compress"
	"github.com/shopspring/decimal"
)

// ScaledDecimal stores decimals as unscaled int64 values. The scale is not
// part of the encoded bytes; it is supplied to Decompress as decimalPlaces.
type ScaledDecimal struct {
	holder[int64]
	scale int
}

// NewScaledDecimal creates a decimal codec. A nil compressor uses compress.Default.
func NewScaledDecimal(c compress.Compressor, f *chunk.Factory) *ScaledDecimal {
	return &ScaledDecimal{holder: holder[int64]{
		compressor: orDefault(c),
		factory:    f,
		width:      8,
		encode:     putInt64,
		decode:     getInt64,
	}}
}

// SetDecimals stores values rescaled to scale digits after the point.
// Digits beyond the scale are rounded half away from zero.
func (c *ScaledDecimal) SetDecimals(values []decimal.Decimal, scale int) error {
	unscaled := make([]int64, len(values))
	for i, v := range values {
		coeff := v.Round(int32(scale)).Shift(int32(scale))
		if !coeff.IsInteger() || coeff.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || coeff.LessThan(decimal.NewFromInt(math.MinInt64)) {
			return fmt.Errorf("%w: %s does not fit scale %d", ErrInvalidInput, v, scale)
		}
		unscaled[i] = coeff.IntPart()
	}
	c.SetValue(unscaled)
	c.scale = scale
	return nil
}

// Decompress restores the unscaled values and records decimalPlaces as the
// scale. maxValue, when given as int64 or decimal.Decimal, bounds every
// restored value.
func (c *ScaledDecimal) Decompress(data []byte, offset, length, decimalPlaces int, maxValue any) error {
	if decimalPlaces < 0 {
		return fmt.Errorf("%w: negative scale %d", ErrInvalidInput, decimalPlaces)
	}
	if err := c.decompress(data, offset, length); err != nil {
		return err
	}
	c.scale = decimalPlaces

	limit, ok, err := maxLimit(maxValue, decimalPlaces)
	if err == nil && ok {
		err = c.checkMax(limit)
	}
	if err != nil {
		c.holder.Release()
		c.store = nil
		return err
	}
	return nil
}

func (c *ScaledDecimal) checkMax(limit int64) error {
	for i := range c.RowCount() {
		if v := c.at(i); v > limit {
			return fmt.Errorf("%w: row %d value %s exceeds max %s", ErrInvalidInput, i,
				decimal.New(v, -int32(c.scale)), decimal.New(limit, -int32(c.scale)))
		}
	}
	return nil
}

func maxLimit(maxValue any, scale int) (int64, bool, error) {
	switch m := maxValue.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return m, true, nil
	case decimal.Decimal:
		return m.Shift(int32(scale)).IntPart(), true, nil
	default:
		return 0, false, fmt.Errorf("%w: max value of type %T", ErrInvalidInput, maxValue)
	}
}

// Scale returns the number of digits after the decimal point.
func (c *ScaledDecimal) Scale() int { return c.scale }

// GetLong returns the integral part of the value.
func (c *ScaledDecimal) GetLong(index int) int64 {
	return decimal.New(c.at(index), -int32(c.scale)).IntPart()
}

func (c *ScaledDecimal) GetDouble(index int) float64 {
	f, _ := decimal.New(c.at(index), -int32(c.scale)).Float64()
	return f
}

func (c *ScaledDecimal) GetDecimal(index int) (decimal.Decimal, error) {
	return decimal.New(c.at(index), -int32(c.scale)), nil
}

func (c *ScaledDecimal) DataType() DataType { return Decimal }
