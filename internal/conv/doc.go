// Package conv provides checked integer conversions.
//
// Chunk-file footers and trailers come from storage and are untrusted; every
// offset, length and count read from them passes through these functions
// before it is used to slice memory.
package conv
