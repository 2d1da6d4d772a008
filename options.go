package colscan

import (
	"github.com/hupe1980/colscan/codec"
	"github.com/hupe1980/colscan/internal/compress"
)

type options struct {
	unsafe           bool
	memoryLimit      int64
	ioLimit          int64
	blockCacheBytes  int64
	parallelism      int
	compressor       compress.Compressor
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
}

func defaultOptions() options {
	return options{
		parallelism:      1,
		compressor:       compress.Default,
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// Option configures a Scanner. Options are applied once by New.
type Option func(*options)

// WithUnsafe places decoded pages and measure values in off-heap memory
// instead of the Go heap. Off-heap stores must be released, which the
// scanner does for every page it decodes.
func WithUnsafe(unsafe bool) Option {
	return func(o *options) {
		o.unsafe = unsafe
	}
}

// WithMemoryLimit caps the off-heap memory held by live stores.
// A value <= 0 only tracks usage.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIOLimit throttles chunk-file reads to bytesPerSec.
// A value <= 0 disables throttling.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithBlockCache keeps up to bytes of raw column-chunk data read through
// OpenChunkFile in memory. Cached bytes count against the memory limit.
// A value <= 0 disables the cache.
func WithBlockCache(bytes int64) Option {
	return func(o *options) {
		o.blockCacheBytes = bytes
	}
}

// WithParallelism sets how many blocks ScanBlocks scans concurrently.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithCompressor sets the byte compressor used by measure codecs and by
// chunk files written through the scanner.
//
// If nil is passed, compress.Default is used.
func WithCompressor(c compress.Compressor) Option {
	return func(o *options) {
		if c == nil {
			c = compress.Default
		}
		o.compressor = c
	}
}

// WithCodec configures the codec used for chunk-file footers written
// through the scanner. Readers detect the codec from the file.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}
