package rawchunk

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSuchColumn is returned for a block index the reader does not hold.
var ErrNoSuchColumn = errors.New("rawchunk: no such column block")

// Reader loads the raw column chunk stored at a block index.
// Implementations may block on IO; their errors are returned unchanged.
type Reader interface {
	ReadDimensionChunk(ctx context.Context, blockIndex int) (*ColumnChunk, error)
}

// MemoryReader serves column chunks held in memory, indexed by block index.
type MemoryReader []*ColumnChunk

// ReadDimensionChunk implements Reader.
func (r MemoryReader) ReadDimensionChunk(ctx context.Context, blockIndex int) (*ColumnChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if blockIndex < 0 || blockIndex >= len(r) || r[blockIndex] == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchColumn, blockIndex)
	}
	return r[blockIndex], nil
}
