// Package testutil provides deterministic data generators for tests and
// benchmarks: a seeded RNG, fixed-width key encoders and permutations for
// building explicitly sorted pages.
package testutil
