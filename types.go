package colscan

import (
	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/dictionary"
	"github.com/hupe1980/colscan/internal/filter"
	"github.com/hupe1980/colscan/internal/measure"
	"github.com/hupe1980/colscan/internal/rawchunk"
)

type (
	// Encoding describes how the values of a column chunk are laid out.
	Encoding = rawchunk.Encoding
	// Page is one compressed page of a column chunk.
	Page = rawchunk.Page
	// PageOptions controls how BuildPage encodes a page.
	PageOptions = rawchunk.PageOptions
	// MemoryReader serves column chunks held in memory.
	MemoryReader = rawchunk.MemoryReader
	// ColumnChunk is the raw data of one dimension column within a block.
	ColumnChunk = rawchunk.ColumnChunk
	// ColumnEncoding is a set of column encodings.
	ColumnEncoding = filter.Encoding
	// DirectType selects a direct-dictionary generator.
	DirectType = dictionary.DataType
	// MeasureType is the physical type of a measure column.
	MeasureType = measure.DataType
	// MeasureCodec decodes measure values.
	MeasureCodec = measure.Codec
)

// Value length kinds.
const (
	Fixed    = chunk.Fixed
	Variable = chunk.Variable
)

// Column encodings.
const (
	Dictionary       = filter.Dictionary
	DirectDictionary = filter.DirectDictionary
)

// Direct-dictionary types.
const (
	Timestamp = dictionary.Timestamp
	Date      = dictionary.Date
)

// Measure types.
const (
	Int     = measure.Int
	Long    = measure.Long
	Double  = measure.Double
	Decimal = measure.Decimal
)
