package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/colscan/internal/bitmap"
	"github.com/hupe1980/colscan/internal/dictionary"
)

// ErrFilterUnsupported is returned for predicates the executor cannot
// evaluate, including pages that fail to decode.
var ErrFilterUnsupported = errors.New("filter: unsupported")

// Encoding is a set of column encodings.
type Encoding uint8

const (
	// Dictionary marks columns stored as surrogate keys.
	Dictionary Encoding = 1 << iota
	// DirectDictionary marks columns whose keys are derived from the value.
	DirectDictionary
)

// Has reports whether all encodings in o are set.
func (e Encoding) Has(o Encoding) bool { return e&o == o }

func (e Encoding) String() string {
	var parts []string
	if e.Has(Dictionary) {
		parts = append(parts, "dictionary")
	}
	if e.Has(DirectDictionary) {
		parts = append(parts, "direct_dictionary")
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, "|")
}

// ColumnInfo describes the filtered dimension column.
type ColumnInfo struct {
	// Ordinal is the column position in block statistics.
	Ordinal int
	// ValueSize is the encoded width; zero for variable-width columns.
	ValueSize int
	Encodings Encoding
	// DataType selects the direct-dictionary generator.
	DataType dictionary.DataType
	// Generator overrides the generator chosen by DataType.
	Generator dictionary.DirectGenerator
}

// SegmentProperties maps column ordinals to block indexes in chunk files.
type SegmentProperties struct {
	OrdinalToBlock map[int]int
}

// BlockIndex returns the block index of a column ordinal.
func (p SegmentProperties) BlockIndex(ordinal int) (int, error) {
	idx, ok := p.OrdinalToBlock[ordinal]
	if !ok {
		return 0, fmt.Errorf("%w: no block mapping for column ordinal %d", ErrFilterUnsupported, ordinal)
	}
	return idx, nil
}

// RowEvaluator evaluates filters row by row. It handles columns the range
// executor cannot scan directly.
type RowEvaluator interface {
	ReadBlocks(ctx context.Context, holder *BlockChunkHolder) error
	ApplyFilter(ctx context.Context, holder *BlockChunkHolder) (*bitmap.Group, error)
}
