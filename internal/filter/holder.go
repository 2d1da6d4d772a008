package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/colscan/internal/rawchunk"
)

// BlockChunkHolder caches the raw column chunks of one block by block index.
// Each slot is loaded at most once, also under concurrent access.
type BlockChunkHolder struct {
	reader rawchunk.Reader
	slots  []holderSlot
}

type holderSlot struct {
	mu    sync.Mutex
	chunk *rawchunk.ColumnChunk
}

// NewBlockChunkHolder creates a holder with one slot per block index.
func NewBlockChunkHolder(reader rawchunk.Reader, blocks int) *BlockChunkHolder {
	return &BlockChunkHolder{
		reader: reader,
		slots:  make([]holderSlot, blocks),
	}
}

// Reader returns the reader backing the holder.
func (h *BlockChunkHolder) Reader() rawchunk.Reader { return h.reader }

// Len returns the number of slots.
func (h *BlockChunkHolder) Len() int { return len(h.slots) }

// DimensionChunk returns the chunk at blockIndex, reading it on first use.
// Failed reads are not cached.
func (h *BlockChunkHolder) DimensionChunk(ctx context.Context, blockIndex int) (*rawchunk.ColumnChunk, error) {
	if blockIndex < 0 || blockIndex >= len(h.slots) {
		return nil, fmt.Errorf("%w: block index %d outside holder of %d", ErrFilterUnsupported, blockIndex, len(h.slots))
	}
	s := &h.slots[blockIndex]

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chunk != nil {
		return s.chunk, nil
	}
	cc, err := h.reader.ReadDimensionChunk(ctx, blockIndex)
	if err != nil {
		return nil, err
	}
	s.chunk = cc
	return cc, nil
}

// Loaded reports whether the slot at blockIndex holds a chunk.
func (h *BlockChunkHolder) Loaded(blockIndex int) bool {
	if blockIndex < 0 || blockIndex >= len(h.slots) {
		return false
	}
	s := &h.slots[blockIndex]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunk != nil
}
