package rawchunk

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/colscan/blobstore"
	"github.com/hupe1980/colscan/codec"
	"github.com/hupe1980/colscan/internal/cache"
	"github.com/hupe1980/colscan/internal/chunk"
	"github.com/hupe1980/colscan/internal/compress"
	"github.com/hupe1980/colscan/internal/conv"
	"github.com/hupe1980/colscan/internal/hash"
	"github.com/hupe1980/colscan/internal/resource"
)

const (
	// Magic identifies a chunk file ("CSCK").
	Magic uint32 = 0x4B435343

	trailerSize   = 8
	formatVersion = 1
)

// ErrCorruptFile is returned when a chunk file fails validation.
var ErrCorruptFile = errors.New("rawchunk: corrupt chunk file")

type footer struct {
	Version int          `json:"version"`
	Columns []columnMeta `json:"columns"`
}

type columnMeta struct {
	Kind       chunk.Kind `json:"kind"`
	ValueSize  int        `json:"value_size,omitempty"`
	Compressor string     `json:"compressor"`
	Pages      []pageMeta `json:"pages"`
}

type pageMeta struct {
	Offset         int64  `json:"offset"`
	DataLength     int64  `json:"data_length"`
	InvertedLength int64  `json:"inverted_length,omitempty"`
	Rows           int    `json:"rows"`
	Checksum       uint32 `json:"crc32c"`
	Stats          bool   `json:"stats,omitempty"`
	Min            []byte `json:"min,omitempty"`
	Max            []byte `json:"max,omitempty"`
}

func (p pageMeta) end() int64 { return p.Offset + p.DataLength + p.InvertedLength }

// Writer assembles a chunk file from the column chunks of one block.
type Writer struct {
	codec   codec.Codec
	columns []*ColumnChunk
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCodec sets the footer codec. Default is codec.Default.
func WithCodec(c codec.Codec) WriterOption {
	return func(w *Writer) {
		if c != nil {
			w.codec = c
		}
	}
}

// NewWriter creates an empty Writer.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{codec: codec.Default}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddColumn appends a column chunk and returns its block index.
func (w *Writer) AddColumn(c *ColumnChunk) int {
	w.columns = append(w.columns, c)
	return len(w.columns) - 1
}

// Bytes serializes the chunk file.
func (w *Writer) Bytes() ([]byte, error) {
	var buf []byte
	f := footer{Version: formatVersion, Columns: make([]columnMeta, len(w.columns))}

	for ci, c := range w.columns {
		if err := c.Encoding.validate(); err != nil {
			return nil, fmt.Errorf("rawchunk: column %d: %w", ci, err)
		}
		comp := c.Compressor
		if comp == nil {
			comp = compress.Default
		}
		meta := columnMeta{
			Kind:       c.Encoding.Kind,
			ValueSize:  c.Encoding.ValueSize,
			Compressor: comp.Name(),
			Pages:      make([]pageMeta, len(c.Pages)),
		}
		for pi := range c.Pages {
			p := &c.Pages[pi]
			if p.Inverted != nil && len(p.Inverted) != p.RowCount {
				return nil, fmt.Errorf("%w: column %d page %d inverted index has %d entries for %d rows",
					ErrInvalidPage, ci, pi, len(p.Inverted), p.RowCount)
			}
			start := len(buf)
			pm := pageMeta{
				Offset:     int64(start),
				DataLength: int64(len(p.Data)),
				Rows:       p.RowCount,
				Stats:      p.HasStats(),
			}
			if pm.Stats {
				pm.Min, pm.Max = p.Min, p.Max
			}
			buf = append(buf, p.Data...)
			for _, row := range p.Inverted {
				buf = binary.LittleEndian.AppendUint32(buf, uint32(row))
			}
			pm.InvertedLength = int64(len(p.Inverted)) * 4
			pm.Checksum = hash.CRC32C(buf[start:])
			meta.Pages[pi] = pm
		}
		f.Columns[ci] = meta
	}

	body, err := w.codec.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("rawchunk: marshal footer: %w", err)
	}
	name := w.codec.Name()
	if len(name) > 0xFF {
		return nil, fmt.Errorf("rawchunk: codec name %q too long", name)
	}
	footerLen, err := conv.IntToUint32(1 + len(name) + len(body))
	if err != nil {
		return nil, err
	}

	buf = append(buf, byte(len(name)))
	buf = append(buf, name...)
	buf = append(buf, body...)
	buf = binary.LittleEndian.AppendUint32(buf, footerLen)
	buf = binary.LittleEndian.AppendUint32(buf, Magic)
	return buf, nil
}

// Write serializes the chunk file and stores it under name.
func (w *Writer) Write(ctx context.Context, store blobstore.Store, name string) error {
	data, err := w.Bytes()
	if err != nil {
		return err
	}
	return store.Put(ctx, name, data)
}

// FileReader reads column chunks from a chunk file.
// It is safe for concurrent use.
type FileReader struct {
	name        string
	blob        blobstore.Blob
	rc          *resource.Controller
	cache       cache.BlockCache
	logger      *slog.Logger
	columns     []columnMeta
	compressors []compress.Compressor
}

// FileOption configures a FileReader.
type FileOption func(*FileReader)

// WithResources throttles reads with the controller's IO limit.
func WithResources(rc *resource.Controller) FileOption {
	return func(r *FileReader) { r.rc = rc }
}

// WithCache keeps column-chunk bytes in c across reads and readers.
func WithCache(c cache.BlockCache) FileOption {
	return func(r *FileReader) { r.cache = c }
}

// WithLogger sets the logger for read events.
func WithLogger(l *slog.Logger) FileOption {
	return func(r *FileReader) {
		if l != nil {
			r.logger = l
		}
	}
}

// OpenFile opens a chunk file and validates its footer.
func OpenFile(ctx context.Context, store blobstore.Store, name string, opts ...FileOption) (*FileReader, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	r := &FileReader{
		name:   name,
		blob:   blob,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.readFooter(ctx); err != nil {
		_ = blob.Close()
		return nil, err
	}
	return r, nil
}

func (r *FileReader) readAt(ctx context.Context, p []byte, off int64) error {
	ra := resource.NewRateLimitedReaderAt(ctx, blobstore.ReaderAt(ctx, r.blob), r.rc)
	n, err := ra.ReadAt(p, off)
	if n == len(p) && (err == nil || errors.Is(err, io.EOF)) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: short read at %d", ErrCorruptFile, r.name, off)
	}
	return err
}

func (r *FileReader) readFooter(ctx context.Context) error {
	size := r.blob.Size()
	if size < trailerSize {
		return fmt.Errorf("%w: %s: %d bytes", ErrCorruptFile, r.name, size)
	}

	var trailer [trailerSize]byte
	if err := r.readAt(ctx, trailer[:], size-trailerSize); err != nil {
		return err
	}
	if m := binary.LittleEndian.Uint32(trailer[4:]); m != Magic {
		return fmt.Errorf("%w: %s: bad magic %#x", ErrCorruptFile, r.name, m)
	}
	footerLen, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(trailer[:4]))
	if err != nil {
		return err
	}
	dataEnd := size - trailerSize - int64(footerLen)
	if footerLen < 1 || dataEnd < 0 {
		return fmt.Errorf("%w: %s: footer length %d", ErrCorruptFile, r.name, footerLen)
	}

	raw := make([]byte, footerLen)
	if err := r.readAt(ctx, raw, dataEnd); err != nil {
		return err
	}
	nameLen := int(raw[0])
	if 1+nameLen > len(raw) {
		return fmt.Errorf("%w: %s: truncated codec name", ErrCorruptFile, r.name)
	}
	c, err := codec.ByName(string(raw[1 : 1+nameLen]))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptFile, r.name, err)
	}

	var f footer
	if err := c.Unmarshal(raw[1+nameLen:], &f); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptFile, r.name, err)
	}
	if f.Version != formatVersion {
		return fmt.Errorf("%w: %s: unsupported version %d", ErrCorruptFile, r.name, f.Version)
	}

	r.compressors = make([]compress.Compressor, len(f.Columns))
	for ci, col := range f.Columns {
		if err := (Encoding{Kind: col.Kind, ValueSize: col.ValueSize}).validate(); err != nil {
			return fmt.Errorf("%w: %s: column %d: %w", ErrCorruptFile, r.name, ci, err)
		}
		if r.compressors[ci], err = compress.ByName(col.Compressor); err != nil {
			return fmt.Errorf("%w: %s: column %d: %w", ErrCorruptFile, r.name, ci, err)
		}
		for pi, p := range col.Pages {
			if p.Offset < 0 || p.DataLength < 0 || p.Rows < 0 || p.end() > dataEnd {
				return fmt.Errorf("%w: %s: column %d page %d out of bounds", ErrCorruptFile, r.name, ci, pi)
			}
			if p.InvertedLength != 0 && p.InvertedLength != int64(p.Rows)*4 {
				return fmt.Errorf("%w: %s: column %d page %d inverted index length %d", ErrCorruptFile, r.name, ci, pi, p.InvertedLength)
			}
		}
	}
	r.columns = f.Columns
	return nil
}

// ColumnCount returns the number of column chunks in the file.
func (r *FileReader) ColumnCount() int {
	return len(r.columns)
}

// ReadDimensionChunk reads all pages of one column with a single ranged read.
func (r *FileReader) ReadDimensionChunk(ctx context.Context, blockIndex int) (*ColumnChunk, error) {
	if blockIndex < 0 || blockIndex >= len(r.columns) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchColumn, blockIndex)
	}
	col := r.columns[blockIndex]
	cc := &ColumnChunk{
		Encoding:   Encoding{Kind: col.Kind, ValueSize: col.ValueSize},
		Compressor: r.compressors[blockIndex],
		Pages:      make([]Page, len(col.Pages)),
	}
	if len(col.Pages) == 0 {
		return cc, nil
	}

	start, end := col.Pages[0].Offset, col.Pages[0].end()
	for _, p := range col.Pages[1:] {
		start = min(start, p.Offset)
		end = max(end, p.end())
	}
	span, err := conv.Int64ToInt(end - start)
	if err != nil {
		return nil, err
	}
	key := cache.Key{File: r.name, Size: r.blob.Size(), Block: blockIndex}
	buf, cached := r.cachedSpan(ctx, key, span)
	if !cached {
		buf = make([]byte, span)
		if err := r.readAt(ctx, buf, start); err != nil {
			return nil, err
		}
	}

	for pi, pm := range col.Pages {
		off := pm.Offset - start
		if sum := hash.CRC32C(buf[off : off+pm.DataLength+pm.InvertedLength]); sum != pm.Checksum {
			return nil, fmt.Errorf("%w: %s: column %d page %d checksum %#x, want %#x",
				ErrCorruptFile, r.name, blockIndex, pi, sum, pm.Checksum)
		}
		p := Page{
			RowCount: pm.Rows,
			Data:     buf[off : off+pm.DataLength : off+pm.DataLength],
		}
		if pm.Stats {
			p.Min, p.Max = nonNil(pm.Min), nonNil(pm.Max)
		}
		if pm.InvertedLength > 0 {
			inv := buf[off+pm.DataLength : off+pm.DataLength+pm.InvertedLength]
			p.Inverted = make([]int32, pm.Rows)
			for i := range p.Inverted {
				p.Inverted[i] = int32(binary.LittleEndian.Uint32(inv[i*4:]))
			}
		}
		cc.Pages[pi] = p
	}

	if r.cache != nil && !cached {
		r.cache.Set(ctx, key, buf)
	}

	r.logger.Debug("read column chunk",
		slog.String("file", r.name),
		slog.Int("block_index", blockIndex),
		slog.Int("pages", len(cc.Pages)),
		slog.Int("bytes", span),
		slog.Bool("cached", cached))
	return cc, nil
}

func (r *FileReader) cachedSpan(ctx context.Context, key cache.Key, span int) ([]byte, bool) {
	if r.cache == nil {
		return nil, false
	}
	b, ok := r.cache.Get(ctx, key)
	if !ok || len(b) != span {
		return nil, false
	}
	return b, true
}

// Close releases the underlying blob.
func (r *FileReader) Close() error {
	return r.blob.Close()
}

// nonNil keeps empty statistics distinguishable from absent ones.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

var (
	_ Reader = (*FileReader)(nil)
	_ Reader = MemoryReader(nil)
)
