package rawchunk

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/compress"
	"github.com/hupe1980/colscan/internal/conv"
)

var (
	// ErrInvalidPage is returned for pages whose content does not match the
	// column encoding.
	ErrInvalidPage = errors.New("rawchunk: invalid page")
	// ErrPageOutOfRange is returned for a page index outside the chunk.
	ErrPageOutOfRange = errors.New("rawchunk: page out of range")
)

// Page is one row-bounded slice of a column chunk.
type Page struct {
	// RowCount is the number of rows in the page.
	RowCount int
	// Min and Max are the smallest and largest encoded values.
	// Both are nil when the page carries no statistics.
	Min, Max []byte
	// Data holds the compressed encoded values in physical row order.
	Data []byte
	// Inverted maps sorted positions to physical rows. Nil when the
	// physical order is already sorted.
	Inverted []int32
}

// HasStats reports whether the page carries min/max statistics.
func (p *Page) HasStats() bool {
	return p.Min != nil && p.Max != nil
}

// Encoding describes how the values of a column chunk are laid out.
type Encoding struct {
	Kind chunk.Kind
	// ValueSize is the width of each value; zero for Variable.
	ValueSize int
}

func (e Encoding) validate() error {
	switch e.Kind {
	case chunk.Fixed:
		if e.ValueSize <= 0 {
			return fmt.Errorf("%w: fixed encoding needs a positive value size", ErrInvalidPage)
		}
	case chunk.Variable:
		if e.ValueSize != 0 {
			return fmt.Errorf("%w: variable encoding has value size %d", ErrInvalidPage, e.ValueSize)
		}
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidPage, e.Kind)
	}
	return nil
}

// PageOptions controls BuildPage.
type PageOptions struct {
	// Inverted sorts the page through an inverted index and keeps the values
	// in the given physical order. Without it the values must already be
	// sorted.
	Inverted bool
	// OmitStats leaves Min and Max nil.
	OmitStats bool
}

// BuildPage encodes values, given in physical row order, into a page.
func BuildPage(enc Encoding, c compress.Compressor, values [][]byte, opts PageOptions) (Page, error) {
	if err := enc.validate(); err != nil {
		return Page{}, err
	}
	if c == nil {
		c = compress.Default
	}

	var raw []byte
	for i, v := range values {
		switch enc.Kind {
		case chunk.Fixed:
			if len(v) != enc.ValueSize {
				return Page{}, fmt.Errorf("%w: row %d has %d bytes, want %d", ErrInvalidPage, i, len(v), enc.ValueSize)
			}
			raw = append(raw, v...)
		case chunk.Variable:
			if len(v) > 0xFFFF {
				return Page{}, fmt.Errorf("%w: row %d has %d bytes", ErrInvalidPage, i, len(v))
			}
			raw = chunk.AppendVariable(raw, v)
		}
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	if opts.Inverted {
		slices.SortStableFunc(order, func(a, b int) int {
			return bytes.Compare(values[a], values[b])
		})
	} else {
		for i := 1; i < len(values); i++ {
			if bytes.Compare(values[i-1], values[i]) > 0 {
				return Page{}, fmt.Errorf("%w: row %d breaks sort order of a page without inverted index", ErrInvalidPage, i)
			}
		}
	}

	data, err := c.Compress(raw)
	if err != nil {
		return Page{}, fmt.Errorf("rawchunk: compress page: %w", err)
	}

	p := Page{RowCount: len(values), Data: data}
	if opts.Inverted {
		p.Inverted = make([]int32, len(order))
		for i, row := range order {
			if p.Inverted[i], err = conv.IntToInt32(row); err != nil {
				return Page{}, err
			}
		}
	}
	if !opts.OmitStats && len(values) > 0 {
		p.Min = bytes.Clone(values[order[0]])
		p.Max = bytes.Clone(values[order[len(order)-1]])
		// Keep statistics of empty values distinguishable from absent ones.
		if p.Min == nil {
			p.Min = []byte{}
		}
		if p.Max == nil {
			p.Max = []byte{}
		}
	}
	return p, nil
}

// ColumnChunk is the raw data of one dimension column within one block.
type ColumnChunk struct {
	Encoding   Encoding
	Compressor compress.Compressor
	Pages      []Page
}

// PagesCount returns the number of pages.
func (c *ColumnChunk) PagesCount() int {
	return len(c.Pages)
}

// RowCounts returns the row count of every page.
func (c *ColumnChunk) RowCounts() []int {
	counts := make([]int, len(c.Pages))
	for i := range c.Pages {
		counts[i] = c.Pages[i].RowCount
	}
	return counts
}

// RowCount returns the total number of rows.
func (c *ColumnChunk) RowCount() int {
	n := 0
	for i := range c.Pages {
		n += c.Pages[i].RowCount
	}
	return n
}

// MinValues returns the per-page minimums, or nil when the chunk carries no
// page statistics.
func (c *ColumnChunk) MinValues() [][]byte {
	return c.stats(func(p *Page) []byte { return p.Min })
}

// MaxValues returns the per-page maximums, or nil when the chunk carries no
// page statistics.
func (c *ColumnChunk) MaxValues() [][]byte {
	return c.stats(func(p *Page) []byte { return p.Max })
}

func (c *ColumnChunk) stats(get func(*Page) []byte) [][]byte {
	if len(c.Pages) == 0 {
		return nil
	}
	out := make([][]byte, len(c.Pages))
	for i := range c.Pages {
		if !c.Pages[i].HasStats() {
			return nil
		}
		out[i] = get(&c.Pages[i])
	}
	return out
}

// ConvertToStore decompresses page i into a new store built by f.
// The caller owns the store and must Release it.
func (c *ColumnChunk) ConvertToStore(i int, f *chunk.Factory) (chunk.Store, error) {
	if i < 0 || i >= len(c.Pages) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, i, len(c.Pages))
	}
	if err := c.Encoding.validate(); err != nil {
		return nil, err
	}
	p := &c.Pages[i]

	comp := c.Compressor
	if comp == nil {
		comp = compress.Default
	}
	raw, err := comp.Decompress(p.Data)
	if err != nil {
		return nil, fmt.Errorf("rawchunk: decompress page %d: %w", i, err)
	}

	store, err := f.New(chunk.Spec{
		ValueSize:        c.Encoding.ValueSize,
		HasInvertedIndex: p.Inverted != nil,
		RowCount:         p.RowCount,
		TotalSize:        int64(len(raw)),
		Kind:             c.Encoding.Kind,
	})
	if err != nil {
		return nil, fmt.Errorf("rawchunk: page %d: %w", i, err)
	}
	if err := store.Put(raw, p.Inverted); err != nil {
		store.Release()
		return nil, fmt.Errorf("rawchunk: page %d: %w", i, err)
	}
	return store, nil
}
