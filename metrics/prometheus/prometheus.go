// Package prometheus exports scanner metrics to Prometheus.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/colscan"
)

var _ colscan.MetricsCollector = (*Collector)(nil)

// Collector implements colscan.MetricsCollector on Prometheus metrics.
type Collector struct {
	blockScans      *prometheus.CounterVec
	blockLatency    prometheus.Histogram
	blocksPruned    prometheus.Counter
	pagesScanned    prometheus.Counter
	pagesPruned     prometheus.Counter
	rowsPruned      prometheus.Counter
	rowsMatched     prometheus.Counter
	decompressRows  prometheus.Counter
	decompressTimes prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
// namespace prefixes every metric name; empty uses "colscan".
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if namespace == "" {
		namespace = "colscan"
	}

	c := &Collector{
		blockScans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_scans_total",
			Help:      "Total block scans by status",
		}, []string{"status"}),
		blockLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "block_scan_duration_seconds",
			Help:      "Latency of block scans",
			Buckets:   prometheus.DefBuckets,
		}),
		blocksPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_pruned_total",
			Help:      "Blocks skipped by block statistics",
		}),
		pagesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_scanned_total",
			Help:      "Pages in successfully scanned blocks",
		}),
		pagesPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_pruned_total",
			Help:      "Pages skipped by page statistics",
		}),
		rowsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_pruned_total",
			Help:      "Rows in pruned pages",
		}),
		rowsMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_matched_total",
			Help:      "Rows selected by filters",
		}),
		decompressRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decompressed_rows_total",
			Help:      "Rows decoded into stores",
		}),
		decompressTimes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decompress_duration_seconds",
			Help:      "Latency of decoding a page or measure chunk",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}

	for _, m := range []prometheus.Collector{
		c.blockScans, c.blockLatency, c.blocksPruned, c.pagesScanned,
		c.pagesPruned, c.rowsPruned, c.rowsMatched, c.decompressRows,
		c.decompressTimes,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordBlockScan implements colscan.MetricsCollector.
func (c *Collector) RecordBlockScan(pages, matched int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.blockScans.WithLabelValues(status).Inc()
	c.blockLatency.Observe(duration.Seconds())
	if err != nil {
		return
	}
	c.pagesScanned.Add(float64(pages))
	c.rowsMatched.Add(float64(matched))
}

// RecordBlockPrune implements colscan.MetricsCollector.
func (c *Collector) RecordBlockPrune() {
	c.blocksPruned.Inc()
}

// RecordPagePrune implements colscan.MetricsCollector.
func (c *Collector) RecordPagePrune(rows int) {
	c.pagesPruned.Inc()
	c.rowsPruned.Add(float64(rows))
}

// RecordDecompress implements colscan.MetricsCollector.
func (c *Collector) RecordDecompress(rows int, duration time.Duration) {
	c.decompressRows.Add(float64(rows))
	c.decompressTimes.Observe(duration.Seconds())
}
