// Package measure compresses and restores numeric measure columns.
//
// A Codec round-trips an array of values through a compress.Compressor.
// Decompress materializes the values into a fixed-width chunk.Store built by
// the process chunk.Factory; accessors read through that store, so the
// memory backend choice applies to measures as well as dimensions.
//
// Codecs report capability mismatches (for example a decimal read from an
// integer codec) with ErrUnsupportedValueKind.
package measure
