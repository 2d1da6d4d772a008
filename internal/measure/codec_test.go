package measure

import (
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/compress"
	"github.com/hupe1980/colscan/internal/resource"
	"github.com/hupe1980/colscan/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factories() map[string]*chunk.Factory {
	return map[string]*chunk.Factory{
		"owned":    chunk.NewFactory(chunk.Config{}),
		"borrowed": chunk.NewFactory(chunk.Config{Unsafe: true, Resources: resource.NewController(resource.Config{})}),
	}
}

func TestPlainInt_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(42)
	compressors := []compress.Compressor{compress.None{}, compress.Snappy{}, compress.LZ4{}, compress.Zstd{}}

	for name, f := range factories() {
		for _, c := range compressors {
			t.Run(name+"/"+c.Name(), func(t *testing.T) {
				for _, n := range []int{0, 1, 7, 1000} {
					values := rng.Int32s(n)
					values = append(values, math.MinInt32, math.MaxInt32, 0, -1)

					enc := NewPlainInt(c, f)
					enc.SetValue(values)
					data, err := enc.Compress()
					require.NoError(t, err)

					// Embed in a larger buffer to exercise offset/length.
					framed := append(append([]byte{0xAA, 0xBB}, data...), 0xCC)

					dec := NewPlainInt(c, f)
					require.NoError(t, dec.Decompress(framed, 2, len(data), 0, nil))
					require.Equal(t, len(values), dec.RowCount())
					for i, v := range values {
						assert.Equal(t, int64(v), dec.GetLong(i))
						assert.Equal(t, float64(v), dec.GetDouble(i))
					}
					dec.Release()
				}
			})
		}
	}
}

func TestPlainInt_GetDecimalUnsupported(t *testing.T) {
	enc := NewPlainInt(nil, chunk.NewFactory(chunk.Config{}))
	enc.SetValue([]int32{1, 2})
	data, err := enc.Compress()
	require.NoError(t, err)
	require.NoError(t, enc.Decompress(data, 0, len(data), 0, nil))
	defer enc.Release()

	_, err = enc.GetDecimal(0)
	assert.ErrorIs(t, err, ErrUnsupportedValueKind)
	assert.Equal(t, []int32{1, 2}, enc.Value())
}

func TestCodec_ReadBeforeDecompress(t *testing.T) {
	c := NewPlainInt(nil, chunk.NewFactory(chunk.Config{}))
	assert.Equal(t, 0, c.RowCount())
	assert.PanicsWithValue(t, ErrNotDecompressed, func() { c.GetLong(0) })
	c.Release()
}

func TestCodec_DecompressOnce(t *testing.T) {
	enc := NewPlainLong(nil, chunk.NewFactory(chunk.Config{}))
	enc.SetValue([]int64{5})
	data, err := enc.Compress()
	require.NoError(t, err)

	require.NoError(t, enc.Decompress(data, 0, len(data), 0, nil))
	assert.ErrorIs(t, enc.Decompress(data, 0, len(data), 0, nil), chunk.ErrAlreadyPopulated)
	assert.Equal(t, int64(5), enc.GetLong(0))
}

func TestCodec_InvalidInput(t *testing.T) {
	f := chunk.NewFactory(chunk.Config{})

	c := NewPlainInt(compress.None{}, f)
	assert.ErrorIs(t, c.Decompress([]byte{1, 2, 3}, 0, 3, 0, nil), ErrInvalidInput)
	assert.ErrorIs(t, c.Decompress([]byte{1, 2, 3, 4}, 2, 4, 0, nil), ErrInvalidInput)

	c = NewPlainInt(compress.Snappy{}, f)
	assert.ErrorIs(t, c.Decompress([]byte{0xff, 0xff, 0xff}, 0, 3, 0, nil), compress.ErrCorrupt)
}

type failingCompressor struct{}

func (failingCompressor) Compress([]byte) ([]byte, error)   { return nil, errors.New("disk on fire") }
func (failingCompressor) Decompress([]byte) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingCompressor) Name() string                      { return "failing" }

func TestCodec_CompressorErrorSurfaces(t *testing.T) {
	c := NewPlainInt(failingCompressor{}, chunk.NewFactory(chunk.Config{}))
	c.SetValue([]int32{1})
	_, err := c.Compress()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestPlainDouble(t *testing.T) {
	for name, f := range factories() {
		t.Run(name, func(t *testing.T) {
			values := []float64{0, -1.5, 3.25, math.MaxFloat64, math.Inf(1)}

			enc := NewPlainDouble(compress.LZ4{}, f)
			enc.SetValue(values)
			data, err := enc.Compress()
			require.NoError(t, err)

			dec := NewPlainDouble(compress.LZ4{}, f)
			require.NoError(t, dec.Decompress(data, 0, len(data), 0, nil))
			defer dec.Release()

			assert.Equal(t, 3.25, dec.GetDouble(2))
			assert.Equal(t, int64(-1), dec.GetLong(1))

			d, err := dec.GetDecimal(2)
			require.NoError(t, err)
			assert.True(t, d.Equal(decimal.RequireFromString("3.25")))

			_, err = dec.GetDecimal(4)
			assert.ErrorIs(t, err, ErrUnsupportedValueKind)
		})
	}
}

func TestScaledDecimal(t *testing.T) {
	for name, f := range factories() {
		t.Run(name, func(t *testing.T) {
			values := []decimal.Decimal{
				decimal.RequireFromString("12.345"),
				decimal.RequireFromString("-0.5"),
				decimal.RequireFromString("7"),
			}

			enc := NewScaledDecimal(compress.Zstd{}, f)
			require.NoError(t, enc.SetDecimals(values, 2))
			assert.Equal(t, []int64{1235, -50, 700}, enc.Value())

			data, err := enc.Compress()
			require.NoError(t, err)

			dec := NewScaledDecimal(compress.Zstd{}, f)
			require.NoError(t, dec.Decompress(data, 0, len(data), 2, int64(1235)))
			defer dec.Release()

			assert.Equal(t, 2, dec.Scale())
			d, err := dec.GetDecimal(0)
			require.NoError(t, err)
			assert.Equal(t, "12.35", d.String())
			assert.Equal(t, int64(12), dec.GetLong(0))
			assert.InDelta(t, -0.5, dec.GetDouble(1), 1e-12)
		})
	}
}

func TestScaledDecimal_MaxValue(t *testing.T) {
	f := chunk.NewFactory(chunk.Config{})
	enc := NewScaledDecimal(nil, f)
	enc.SetValue([]int64{100, 250})
	data, err := enc.Compress()
	require.NoError(t, err)

	dec := NewScaledDecimal(nil, f)
	err = dec.Decompress(data, 0, len(data), 1, decimal.RequireFromString("20"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	dec.Release()

	dec = NewScaledDecimal(nil, f)
	require.NoError(t, dec.Decompress(data, 0, len(data), 1, decimal.RequireFromString("25")))
	dec.Release()

	dec = NewScaledDecimal(nil, f)
	assert.ErrorIs(t, dec.Decompress(data, 0, len(data), 1, "25"), ErrInvalidInput)
	dec.Release()
}

func TestByType(t *testing.T) {
	f := chunk.NewFactory(chunk.Config{})
	for _, dt := range []DataType{Int, Long, Double, Decimal} {
		c, err := ByType(dt, nil, f)
		require.NoError(t, err)
		assert.Equal(t, dt, c.DataType())
	}
	_, err := ByType(DataType(99), nil, f)
	assert.ErrorIs(t, err, ErrUnsupportedValueKind)
}
