package testutil

import (
	"encoding/binary"
	"math/rand"
	"slices"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int32s returns n pseudo-random int32 values covering the full range.
func (r *RNG) Int32s(n int) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(r.rand.Uint32())
	}
	return out
}

// Keys returns n pseudo-random surrogate keys in [lo, hi).
func (r *RNG) Keys(n int, lo, hi uint32) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint32, n)
	for i := range out {
		out[i] = lo + uint32(r.rand.Int63n(int64(hi-lo)))
	}
	return out
}

// SortedKeys returns Keys sorted ascending.
func (r *RNG) SortedKeys(n int, lo, hi uint32) []uint32 {
	keys := r.Keys(n, lo, hi)
	slices.Sort(keys)
	return keys
}

// Perm returns a pseudo-random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// EncodeKey encodes key big-endian in width bytes (1-4).
// Big-endian keeps byte order consistent with numeric order.
func EncodeKey(key uint32, width int) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], key)
	return append([]byte(nil), buf[4-width:]...)
}

// EncodeKeys concatenates EncodeKey for every key.
func EncodeKeys(keys []uint32, width int) []byte {
	out := make([]byte, 0, len(keys)*width)
	for _, k := range keys {
		out = append(out, EncodeKey(k, width)...)
	}
	return out
}

// Scatter lays sorted keys out in a random physical order.
// It returns the physical keys and the inverted index where
// inverted[sorted] = physical.
func (r *RNG) Scatter(sorted []uint32) ([]uint32, []int32) {
	perm := r.Perm(len(sorted))
	physical := make([]uint32, len(sorted))
	inverted := make([]int32, len(sorted))
	for s, p := range perm {
		physical[p] = sorted[s]
		inverted[s] = int32(p)
	}
	return physical, inverted
}

// KeyValues encodes every key as its own value.
func KeyValues(keys []uint32, width int) [][]byte {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = EncodeKey(k, width)
	}
	return out
}
