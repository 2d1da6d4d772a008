package filter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/colscan/internal/bitmap"
	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/dictionary"
	"github.com/hupe1980/colscan/internal/rawchunk"
)

// PageEvent reports how one page was handled by ApplyFilter.
type PageEvent struct {
	Page     int
	Rows     int
	Matched  int
	Pruned   bool
	Duration time.Duration
}

// Observer receives a PageEvent for every page of a scanned block.
type Observer func(PageEvent)

// Option configures a LessThanEqual executor.
type Option func(*LessThanEqual)

// WithFallback sets the evaluator for columns without dictionary encoding.
func WithFallback(r RowEvaluator) Option {
	return func(e *LessThanEqual) { e.fallback = r }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *LessThanEqual) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers a per-page callback.
func WithObserver(o Observer) Option {
	return func(e *LessThanEqual) { e.observer = o }
}

// LessThanEqual selects rows whose value is <= any operand.
type LessThanEqual struct {
	column     ColumnInfo
	operands   [][]byte
	factory    *chunk.Factory
	fallback   RowEvaluator
	logger     *slog.Logger
	observer   Observer
	blockIndex int
	generator  dictionary.DirectGenerator
}

// NewLessThanEqual creates an executor for column <= operands.
// Operands are encoded like the column values; a row matches when it is
// less than or equal to at least one of them.
func NewLessThanEqual(column ColumnInfo, segment SegmentProperties, operands [][]byte, factory *chunk.Factory, opts ...Option) (*LessThanEqual, error) {
	e := &LessThanEqual{
		column:   column,
		operands: operands,
		factory:  factory,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	if len(operands) == 0 {
		return nil, fmt.Errorf("%w: no operands", ErrFilterUnsupported)
	}

	if !column.Encodings.Has(Dictionary) {
		if e.fallback == nil {
			return nil, fmt.Errorf("%w: column %d is not dictionary encoded and no fallback is set", ErrFilterUnsupported, column.Ordinal)
		}
		return e, nil
	}

	if factory == nil {
		return nil, fmt.Errorf("%w: nil chunk factory", ErrFilterUnsupported)
	}
	if column.ValueSize < 0 {
		return nil, fmt.Errorf("%w: negative value size %d", ErrFilterUnsupported, column.ValueSize)
	}
	if column.ValueSize > 0 {
		for i, op := range operands {
			if len(op) != column.ValueSize {
				return nil, fmt.Errorf("%w: operand %d has %d bytes, column width is %d", ErrFilterUnsupported, i, len(op), column.ValueSize)
			}
		}
	}

	idx, err := segment.BlockIndex(column.Ordinal)
	if err != nil {
		return nil, err
	}
	e.blockIndex = idx

	if column.Encodings.Has(DirectDictionary) {
		if column.ValueSize == 0 {
			return nil, fmt.Errorf("%w: direct dictionary column %d must be fixed width", ErrFilterUnsupported, column.Ordinal)
		}
		e.generator = column.Generator
		if e.generator == nil {
			if e.generator, err = dictionary.ForType(column.DataType); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrFilterUnsupported, err)
			}
		}
	}
	return e, nil
}

// Operands returns the filter operands.
func (e *LessThanEqual) Operands() [][]byte { return e.operands }

// BlockIndex returns the chunk-file block index of the filtered column.
func (e *LessThanEqual) BlockIndex() int { return e.blockIndex }

// NeedsScan reports whether a page or block with the given minimum can hold
// a row <= some operand. The maximum never matters for <=.
func NeedsScan(minValue []byte, operands [][]byte) bool {
	for _, op := range operands {
		if bytes.Compare(op, minValue) >= 0 {
			return true
		}
	}
	return false
}

// IsScanRequired applies NeedsScan to the block statistics of the filtered
// column. Missing statistics always require a scan.
func (e *LessThanEqual) IsScanRequired(blockMax, blockMin [][]byte) bool {
	ord := e.column.Ordinal
	if ord < 0 || ord >= len(blockMin) || blockMin[ord] == nil {
		return true
	}
	return NeedsScan(blockMin[ord], e.operands)
}

// ReadBlocks loads the raw chunk of the filtered column into holder.
func (e *LessThanEqual) ReadBlocks(ctx context.Context, holder *BlockChunkHolder) error {
	if !e.column.Encodings.Has(Dictionary) {
		return e.fallback.ReadBlocks(ctx, holder)
	}
	_, err := holder.DimensionChunk(ctx, e.blockIndex)
	return err
}

// ApplyFilter scans the pages of the filtered column and returns one row
// selection per page. The caller owns the returned group.
func (e *LessThanEqual) ApplyFilter(ctx context.Context, holder *BlockChunkHolder) (*bitmap.Group, error) {
	if !e.column.Encodings.Has(Dictionary) {
		return e.fallback.ApplyFilter(ctx, holder)
	}

	cc, err := holder.DimensionChunk(ctx, e.blockIndex)
	if err != nil {
		return nil, err
	}

	var sentinel []byte
	if e.generator != nil {
		if sentinel, err = dictionary.DefaultValue(e.generator, e.column.ValueSize); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFilterUnsupported, err)
		}
	}

	group := bitmap.NewGroup(cc.RowCounts())
	mins := cc.MinValues()

	for i := range cc.PagesCount() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows := cc.Pages[i].RowCount

		if mins != nil && !NeedsScan(mins[i], e.operands) {
			e.logger.Debug("page pruned", slog.Int("page", i), slog.Int("rows", rows))
			e.observe(PageEvent{Page: i, Rows: rows, Pruned: true})
			continue
		}

		start := time.Now()
		sel, err := e.scanPage(cc, i, sentinel)
		if err != nil {
			return nil, err
		}
		if err := group.SetPage(i, sel); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFilterUnsupported, err)
		}
		e.observe(PageEvent{Page: i, Rows: rows, Matched: sel.Count(), Duration: time.Since(start)})
	}
	return group, nil
}

func (e *LessThanEqual) observe(ev PageEvent) {
	if e.observer != nil {
		e.observer(ev)
	}
}

func (e *LessThanEqual) scanPage(cc *rawchunk.ColumnChunk, page int, sentinel []byte) (*bitmap.RowSelection, error) {
	store, err := cc.ConvertToStore(page, e.factory)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrFilterUnsupported, page, err)
	}
	defer store.Release()

	if e.column.ValueSize > 0 && store.ValueSize() != e.column.ValueSize {
		return nil, fmt.Errorf("%w: page %d has value size %d, column width is %d",
			ErrFilterUnsupported, page, store.ValueSize(), e.column.ValueSize)
	}
	return selectLessThanEqual(store, e.operands, sentinel), nil
}

// selectLessThanEqual marks every row of s whose value is <= some operand.
// Rows sorting before sentinel hold nulls and are never marked.
//
// Sorted positions are covered from the bottom up: each operand extends the
// covered prefix, searching only above it, until the whole page is covered.
func selectLessThanEqual(s chunk.Store, operands [][]byte, sentinel []byte) *bitmap.RowSelection {
	n := s.RowCount()
	sel := bitmap.NewRowSelection(n)
	if n == 0 {
		return sel
	}

	skip := 0
	if sentinel != nil {
		skip = binarySearch(s, 0, n, sentinel, firstMatch).Index
		if skip == n {
			return sel
		}
	}

	covered := skip - 1
	for _, op := range operands {
		if covered == n-1 {
			break
		}
		bound := upperBound(s, covered+1, n, op)
		if bound <= covered {
			continue
		}
		if s.IsExplicitSorted() {
			for pos := covered + 1; pos <= bound; pos++ {
				sel.Set(s.InvertedIndex(pos))
			}
		} else {
			sel.SetRange(covered+1, bound+1)
		}
		covered = bound
	}
	return sel
}

// upperBound returns the last sorted position in [lo, n) whose value is
// <= key, or lo-1 when there is none.
func upperBound(s chunk.Store, lo, n int, key []byte) int {
	r := binarySearch(s, lo, n, key, lastMatch)
	if r.Found {
		return r.Index
	}
	pos := r.Index
	if pos >= n {
		pos = n - 1
	}
	if valueAt(s, pos, key) > 0 {
		pos--
	}
	return pos
}
