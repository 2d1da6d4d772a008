package colscan

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colscan/blobstore"
	"github.com/hupe1980/colscan/internal/bitmap"
	"github.com/hupe1980/colscan/internal/cache"
	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/dictionary"
	"github.com/hupe1980/colscan/internal/filter"
	"github.com/hupe1980/colscan/internal/measure"
	"github.com/hupe1980/colscan/internal/rawchunk"
	"github.com/hupe1980/colscan/internal/resource"
)

type (
	// ColumnInfo describes a filtered dimension column.
	ColumnInfo = filter.ColumnInfo
	// SegmentProperties maps column ordinals to chunk-file block indexes.
	SegmentProperties = filter.SegmentProperties
	// BlockChunkHolder caches the raw column chunks of one block.
	BlockChunkHolder = filter.BlockChunkHolder
	// RowEvaluator evaluates columns the range executor cannot scan.
	RowEvaluator = filter.RowEvaluator
	// ChunkReader reads raw dimension column chunks by block index.
	ChunkReader = rawchunk.Reader
	// Selection holds one row selection per page of a block.
	Selection = bitmap.Group
)

// Filter is a block-level row filter.
type Filter interface {
	// IsScanRequired reports whether block statistics admit a match.
	IsScanRequired(blockMax, blockMin [][]byte) bool
	// ReadBlocks loads the raw chunks the filter needs into holder.
	ReadBlocks(ctx context.Context, holder *BlockChunkHolder) error
	// ApplyFilter evaluates the filter on the chunks in holder.
	ApplyFilter(ctx context.Context, holder *BlockChunkHolder) (*Selection, error)
}

// Block is one unit of ScanBlocks.
type Block struct {
	// Reader supplies the raw column chunks of the block.
	Reader ChunkReader
	// Columns is the number of column chunks the block holds.
	Columns int
	// Min and Max are block statistics indexed by column ordinal.
	// Nil statistics never prune.
	Min, Max [][]byte
}

// BlockResult is the outcome of scanning one block.
type BlockResult struct {
	// Pruned is true when block statistics excluded every row.
	Pruned bool
	// Selection is nil for pruned blocks.
	Selection *Selection
}

// Rows returns the selected rows as block-wide row ids.
func (r BlockResult) Rows() *roaring.Bitmap {
	if r.Selection == nil {
		return roaring.New()
	}
	return r.Selection.Flatten()
}

// Count returns the number of selected rows.
func (r BlockResult) Count() int {
	if r.Selection == nil {
		return 0
	}
	return r.Selection.Count()
}

// Scanner evaluates range filters over columnar blocks.
//
// Configuration is read once by New; the chunk factory, resource
// controller and codecs it builds are shared by all scans.
type Scanner struct {
	opts      options
	resources *resource.Controller
	factory   *chunk.Factory
	cache     *cache.ShardedLRUBlockCache
}

// New creates a Scanner.
func New(optFns ...Option) (*Scanner, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	if o.parallelism < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidParallelism, o.parallelism)
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   o.memoryLimit,
		MaxWorkers:         int64(o.parallelism),
		IOLimitBytesPerSec: o.ioLimit,
	})

	s := &Scanner{
		opts:      o,
		resources: rc,
		factory:   chunk.NewFactory(chunk.Config{Unsafe: o.unsafe, Resources: rc}),
	}
	if o.blockCacheBytes > 0 {
		s.cache = cache.NewShardedLRUBlockCache(o.blockCacheBytes, rc)
	}

	o.logger.Debug("scanner created",
		"unsafe", o.unsafe,
		"parallelism", o.parallelism,
		"compressor", o.compressor.Name(),
		"block_cache_bytes", o.blockCacheBytes,
	)
	return s, nil
}

// Unsafe reports whether decoded data lives off-heap.
func (s *Scanner) Unsafe() bool { return s.factory.Unsafe() }

// MemoryUsage returns the off-heap and block-cache bytes currently held.
func (s *Scanner) MemoryUsage() int64 { return s.resources.MemoryUsage() }

// PeakMemoryUsage returns the highest off-heap usage observed.
func (s *Scanner) PeakMemoryUsage() int64 { return s.resources.PeakMemoryUsage() }

// LessThanEqual creates a filter selecting rows whose column value is <= any
// operand. fallback evaluates columns without dictionary encoding and may
// be nil for dictionary columns.
func (s *Scanner) LessThanEqual(column ColumnInfo, segment SegmentProperties, operands [][]byte, fallback RowEvaluator) (*filter.LessThanEqual, error) {
	opts := []filter.Option{
		filter.WithLogger(s.opts.logger.WithColumn(column.Ordinal).Logger),
		filter.WithObserver(s.observePage),
	}
	if fallback != nil {
		opts = append(opts, filter.WithFallback(fallback))
	}
	return filter.NewLessThanEqual(column, segment, operands, s.factory, opts...)
}

// DirectOperands encodes filter values of a direct-dictionary column as
// mask keys of the column width.
func (s *Scanner) DirectOperands(column ColumnInfo, values ...any) ([][]byte, error) {
	g := column.Generator
	if g == nil {
		var err error
		if g, err = dictionary.ForType(column.DataType); err != nil {
			return nil, err
		}
	}
	return dictionary.Operands(g, column.ValueSize, values...)
}

func (s *Scanner) observePage(ev filter.PageEvent) {
	if ev.Pruned {
		s.opts.metricsCollector.RecordPagePrune(ev.Rows)
		return
	}
	s.opts.metricsCollector.RecordDecompress(ev.Rows, ev.Duration)
}

// ScanBlock prunes, reads and filters one block. It takes one of the
// scanner's worker slots and waits while all are busy.
func (s *Scanner) ScanBlock(ctx context.Context, f Filter, b Block) (BlockResult, error) {
	if err := s.resources.AcquireWorker(ctx); err != nil {
		return BlockResult{}, err
	}
	defer s.resources.ReleaseWorker()

	return s.scanBlock(ctx, 0, f, b)
}

// ScanBlocks scans blocks concurrently. The configured parallelism caps
// the block scans in flight across all ScanBlock and ScanBlocks calls of
// the scanner. Results are in block order. The first failure cancels the
// remaining scans and is returned as an *ErrBlockScan.
func (s *Scanner) ScanBlocks(ctx context.Context, f Filter, blocks []Block) ([]BlockResult, error) {
	results := make([]BlockResult, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.resources.MaxWorkers())

	for i := range blocks {
		g.Go(func() error {
			if err := s.resources.AcquireWorker(gctx); err != nil {
				return translateError(i, err)
			}
			defer s.resources.ReleaseWorker()

			r, err := s.scanBlock(gctx, i, f, blocks[i])
			if err != nil {
				return translateError(i, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scanner) scanBlock(ctx context.Context, index int, f Filter, b Block) (BlockResult, error) {
	if err := ctx.Err(); err != nil {
		return BlockResult{}, err
	}

	if b.Min != nil && !f.IsScanRequired(b.Max, b.Min) {
		s.opts.logger.LogPrune(ctx, index)
		s.opts.metricsCollector.RecordBlockPrune()
		return BlockResult{Pruned: true}, nil
	}

	start := time.Now()
	holder := filter.NewBlockChunkHolder(b.Reader, b.Columns)

	sel, err := func() (*Selection, error) {
		if err := f.ReadBlocks(ctx, holder); err != nil {
			return nil, err
		}
		return f.ApplyFilter(ctx, holder)
	}()

	pages, matched := 0, 0
	if sel != nil {
		pages, matched = sel.Len(), sel.Count()
	}
	s.opts.metricsCollector.RecordBlockScan(pages, matched, time.Since(start), err)
	s.opts.logger.LogBlockScan(ctx, index, pages, matched, err)

	if err != nil {
		return BlockResult{}, err
	}
	return BlockResult{Selection: sel}, nil
}

// MeasureCodec returns an empty codec for dt using the configured
// compressor and memory backend.
func (s *Scanner) MeasureCodec(dt measure.DataType) (measure.Codec, error) {
	return measure.ByType(dt, s.opts.compressor, s.factory)
}

// DecodeMeasure decompresses data[offset:offset+length] into a codec of
// type dt. The caller must Release the codec.
func (s *Scanner) DecodeMeasure(dt measure.DataType, data []byte, offset, length, decimalPlaces int, maxValue any) (measure.Codec, error) {
	c, err := s.MeasureCodec(dt)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := c.Decompress(data, offset, length, decimalPlaces, maxValue); err != nil {
		return nil, err
	}
	s.opts.metricsCollector.RecordDecompress(c.RowCount(), time.Since(start))
	return c, nil
}

// NewChunkWriter returns a chunk-file writer using the configured footer
// codec.
func (s *Scanner) NewChunkWriter() *rawchunk.Writer {
	return rawchunk.NewWriter(rawchunk.WithCodec(s.opts.codec))
}

// BuildPage encodes values into a page compressed with the configured
// compressor.
func (s *Scanner) BuildPage(enc rawchunk.Encoding, values [][]byte, opts rawchunk.PageOptions) (rawchunk.Page, error) {
	return rawchunk.BuildPage(enc, s.opts.compressor, values, opts)
}

// NewColumnChunk groups pages built by BuildPage into a column chunk.
func (s *Scanner) NewColumnChunk(enc rawchunk.Encoding, pages ...rawchunk.Page) *rawchunk.ColumnChunk {
	return &rawchunk.ColumnChunk{Encoding: enc, Compressor: s.opts.compressor, Pages: pages}
}

// OpenChunkFile opens a chunk file in store. Reads are throttled by the
// configured IO limit and served from the block cache when enabled.
// The caller must Close the reader.
func (s *Scanner) OpenChunkFile(ctx context.Context, store blobstore.Store, name string) (*rawchunk.FileReader, error) {
	opts := []rawchunk.FileOption{
		rawchunk.WithResources(s.resources),
		rawchunk.WithLogger(s.opts.logger.Logger),
	}
	if s.cache != nil {
		opts = append(opts, rawchunk.WithCache(s.cache))
	}
	return rawchunk.OpenFile(ctx, store, name, opts...)
}

// CacheStats returns block-cache hits and misses. Both are zero when the
// cache is disabled.
func (s *Scanner) CacheStats() (hits, misses int64) {
	if s.cache == nil {
		return 0, 0
	}
	return s.cache.Stats()
}

// InvalidateChunkFile drops cached column chunks of the named file.
// Call it after a chunk file is rewritten in place.
func (s *Scanner) InvalidateChunkFile(name string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(func(k cache.Key) bool { return k.File == name })
}
