package testutil

import (
	"bytes"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	assert.Equal(t, a.Int32s(16), b.Int32s(16))
	assert.Equal(t, int64(7), a.Seed())

	first := a.Keys(8, 10, 20)
	a.Reset()
	a.Int32s(16)
	assert.Equal(t, first, a.Keys(8, 10, 20))
}

func TestRNG_SortedKeys(t *testing.T) {
	keys := NewRNG(1).SortedKeys(100, 5, 50)
	assert.True(t, slices.IsSorted(keys))
	for _, k := range keys {
		assert.GreaterOrEqual(t, k, uint32(5))
		assert.Less(t, k, uint32(50))
	}
}

func TestEncodeKey_PreservesOrder(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x02}, EncodeKey(0x0102, 2))
	assert.Equal(t, []byte{0, 0, 0, 9}, EncodeKey(9, 4))
	assert.Equal(t, -1, bytes.Compare(EncodeKey(255, 2), EncodeKey(256, 2)))
	assert.Equal(t, []byte{0, 1, 0, 2}, EncodeKeys([]uint32{1, 2}, 2))
}

func TestKeyValues(t *testing.T) {
	assert.Equal(t, [][]byte{{0, 7}, {1, 0}}, KeyValues([]uint32{7, 256}, 2))
}

func TestScatter(t *testing.T) {
	sorted := []uint32{10, 20, 30, 40, 50}
	physical, inverted := NewRNG(3).Scatter(sorted)
	for s, p := range inverted {
		assert.Equal(t, sorted[s], physical[p])
	}
}
