package dictionary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// NullKey is the surrogate key reserved for null.
const NullKey = 1

// firstKey is the smallest surrogate key of a non-null value.
const firstKey = NullKey + 1

var (
	// ErrUnsupportedType is returned for data types without a direct dictionary.
	ErrUnsupportedType = errors.New("dictionary: unsupported data type")
	// ErrOutOfRange is returned when a value has no representable key.
	ErrOutOfRange = errors.New("dictionary: value out of key range")
)

// DataType is the logical type of a direct-dictionary column.
type DataType uint8

const (
	Timestamp DataType = iota + 1
	Date
)

func (t DataType) String() string {
	switch t {
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// DirectGenerator derives surrogate keys from values.
type DirectGenerator interface {
	// GenerateKey returns the key of v. A nil v yields NullKey.
	GenerateKey(v any) (int, error)

	// Value returns the value of a non-null key.
	Value(key int) (any, error)

	DataType() DataType
}

// ForType returns the default generator for dt.
func ForType(dt DataType) (DirectGenerator, error) {
	switch dt {
	case Timestamp:
		return NewTimestampGenerator(time.Unix(0, 0).UTC(), time.Second), nil
	case Date:
		return DateGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, dt)
	}
}

// TimestampGenerator maps instants at or after a cutoff to keys of fixed
// granularity.
type TimestampGenerator struct {
	cutoff      time.Time
	granularity time.Duration
}

// NewTimestampGenerator creates a timestamp generator. A non-positive
// granularity defaults to one second.
func NewTimestampGenerator(cutoff time.Time, granularity time.Duration) *TimestampGenerator {
	if granularity <= 0 {
		granularity = time.Second
	}
	return &TimestampGenerator{cutoff: cutoff, granularity: granularity}
}

func (g *TimestampGenerator) GenerateKey(v any) (int, error) {
	if v == nil {
		return NullKey, nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return 0, fmt.Errorf("%w: timestamp generator got %T", ErrUnsupportedType, v)
	}
	if t.Before(g.cutoff) {
		return 0, fmt.Errorf("%w: %s before cutoff %s", ErrOutOfRange, t, g.cutoff)
	}
	steps := int64(t.Sub(g.cutoff) / g.granularity)
	if steps > math.MaxInt32-firstKey {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, t)
	}
	return int(steps) + firstKey, nil
}

func (g *TimestampGenerator) Value(key int) (any, error) {
	if key < firstKey {
		return nil, fmt.Errorf("%w: key %d", ErrOutOfRange, key)
	}
	return g.cutoff.Add(time.Duration(key-firstKey) * g.granularity), nil
}

func (g *TimestampGenerator) DataType() DataType { return Timestamp }

// dateOffset centers the epoch day in the int32 key space so dates before
// 1970 keep positive keys.
const dateOffset = math.MaxInt32 >> 1

// DateGenerator maps calendar days (UTC) to keys.
type DateGenerator struct{}

func (DateGenerator) GenerateKey(v any) (int, error) {
	if v == nil {
		return NullKey, nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return 0, fmt.Errorf("%w: date generator got %T", ErrUnsupportedType, v)
	}
	days := int64(math.Floor(float64(t.UTC().Unix()) / 86400))
	key := days + dateOffset
	if key < firstKey || key > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, t)
	}
	return int(key), nil
}

func (DateGenerator) Value(key int) (any, error) {
	if key < firstKey {
		return nil, fmt.Errorf("%w: key %d", ErrOutOfRange, key)
	}
	return time.Unix(int64(key-dateOffset)*86400, 0).UTC(), nil
}

func (DateGenerator) DataType() DataType { return Date }

// MaskKey encodes key big-endian in width bytes (1-8).
func MaskKey(key int, width int) ([]byte, error) {
	if width < 1 || width > 8 {
		return nil, fmt.Errorf("dictionary: invalid key width %d", width)
	}
	if key < 0 || (width < 8 && uint64(key) >= uint64(1)<<(8*width)) {
		return nil, fmt.Errorf("%w: key %d does not fit %d bytes", ErrOutOfRange, key, width)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(key))
	return append([]byte(nil), buf[8-width:]...), nil
}

// DefaultValue returns the mask key of the smallest non-null key. Rows of a
// sorted page before its first occurrence hold nulls.
func DefaultValue(g DirectGenerator, width int) ([]byte, error) {
	null, err := g.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return MaskKey(null+1, width)
}

// Operands encodes filter values as mask keys of width bytes.
func Operands(g DirectGenerator, width int, values ...any) ([][]byte, error) {
	out := make([][]byte, len(values))
	for i, v := range values {
		key, err := g.GenerateKey(v)
		if err != nil {
			return nil, err
		}
		if out[i], err = MaskKey(key, width); err != nil {
			return nil, err
		}
	}
	return out, nil
}
