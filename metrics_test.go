package colscan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	var mc BasicMetricsCollector

	mc.RecordBlockScan(3, 10, 2*time.Millisecond, nil)
	mc.RecordBlockScan(0, 0, 4*time.Millisecond, errors.New("boom"))
	mc.RecordBlockPrune()
	mc.RecordPagePrune(64)
	mc.RecordPagePrune(32)
	mc.RecordDecompress(100, time.Millisecond)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.BlockScanCount)
	assert.Equal(t, int64(1), stats.BlockScanErrors)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.BlockScanAvgNanos)
	assert.Equal(t, int64(1), stats.BlocksPruned)
	assert.Equal(t, int64(3), stats.PagesScanned)
	assert.Equal(t, int64(2), stats.PagesPruned)
	assert.Equal(t, int64(96), stats.RowsPruned)
	assert.Equal(t, int64(10), stats.RowsMatched)
	assert.Equal(t, int64(1), stats.DecompressCount)
	assert.Equal(t, int64(100), stats.DecompressRows)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	var mc BasicMetricsCollector
	assert.Zero(t, mc.GetStats().BlockScanAvgNanos)
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		mc.RecordBlockScan(1, 1, time.Second, nil)
		mc.RecordBlockPrune()
		mc.RecordPagePrune(1)
		mc.RecordDecompress(1, time.Second)
	})
}
