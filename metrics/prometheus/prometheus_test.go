package prometheus

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg, "")
	require.NoError(t, err)

	c.RecordBlockScan(4, 9, time.Millisecond, nil)
	c.RecordBlockScan(0, 0, time.Millisecond, errors.New("boom"))
	c.RecordBlockPrune()
	c.RecordPagePrune(128)
	c.RecordDecompress(256, time.Microsecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.blockScans.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.blockScans.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.blocksPruned))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.pagesScanned))
	assert.Equal(t, 9.0, testutil.ToFloat64(c.rowsMatched))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.pagesPruned))
	assert.Equal(t, 128.0, testutil.ToFloat64(c.rowsPruned))
	assert.Equal(t, 256.0, testutil.ToFloat64(c.decompressRows))

	expected := `
# HELP colscan_blocks_pruned_total Blocks skipped by block statistics
# TYPE colscan_blocks_pruned_total counter
colscan_blocks_pruned_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "colscan_blocks_pruned_total"))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg, "scan")
	require.NoError(t, err)

	_, err = NewCollector(reg, "scan")
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}
