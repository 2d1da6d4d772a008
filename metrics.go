package colscan

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prometheus package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordBlockScan is called after each block scan.
	// pages is the number of pages in the block, matched the number of
	// selected rows, err is nil if successful.
	RecordBlockScan(pages, matched int, duration time.Duration, err error)

	// RecordBlockPrune is called when block statistics rule a block out.
	RecordBlockPrune()

	// RecordPagePrune is called for every page skipped by its minimum.
	RecordPagePrune(rows int)

	// RecordDecompress is called after a page or measure chunk is decoded
	// into a store.
	RecordDecompress(rows int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBlockScan(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordBlockPrune()                              {}
func (NoopMetricsCollector) RecordPagePrune(int)                            {}
func (NoopMetricsCollector) RecordDecompress(int, time.Duration)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BlockScanCount      atomic.Int64
	BlockScanErrors     atomic.Int64
	BlockScanTotalNanos atomic.Int64
	BlocksPruned        atomic.Int64
	PagesScanned        atomic.Int64
	PagesPruned         atomic.Int64
	RowsPruned          atomic.Int64
	RowsMatched         atomic.Int64
	DecompressCount     atomic.Int64
	DecompressRows      atomic.Int64
	DecompressNanos     atomic.Int64
}

// RecordBlockScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlockScan(pages, matched int, duration time.Duration, err error) {
	b.BlockScanCount.Add(1)
	b.BlockScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BlockScanErrors.Add(1)
		return
	}
	b.PagesScanned.Add(int64(pages))
	b.RowsMatched.Add(int64(matched))
}

// RecordBlockPrune implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlockPrune() {
	b.BlocksPruned.Add(1)
}

// RecordPagePrune implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPagePrune(rows int) {
	b.PagesPruned.Add(1)
	b.RowsPruned.Add(int64(rows))
}

// RecordDecompress implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecompress(rows int, duration time.Duration) {
	b.DecompressCount.Add(1)
	b.DecompressRows.Add(int64(rows))
	b.DecompressNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BlockScanCount:    b.BlockScanCount.Load(),
		BlockScanErrors:   b.BlockScanErrors.Load(),
		BlockScanAvgNanos: b.getAvgBlockScanNanos(),
		BlocksPruned:      b.BlocksPruned.Load(),
		PagesScanned:      b.PagesScanned.Load(),
		PagesPruned:       b.PagesPruned.Load(),
		RowsPruned:        b.RowsPruned.Load(),
		RowsMatched:       b.RowsMatched.Load(),
		DecompressCount:   b.DecompressCount.Load(),
		DecompressRows:    b.DecompressRows.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgBlockScanNanos() int64 {
	count := b.BlockScanCount.Load()
	if count == 0 {
		return 0
	}
	return b.BlockScanTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	BlockScanCount    int64
	BlockScanErrors   int64
	BlockScanAvgNanos int64
	BlocksPruned      int64
	PagesScanned      int64
	PagesPruned       int64
	RowsPruned        int64
	RowsMatched       int64
	DecompressCount   int64
	DecompressRows    int64
}
