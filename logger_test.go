package colscan

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_BlockScan(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.WithColumn(2).LogBlockScan(t.Context(), 7, 3, 11, nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "block scan completed", entry["msg"])
	assert.Equal(t, float64(2), entry["column"])
	assert.Equal(t, float64(7), entry["block"])
	assert.Equal(t, float64(11), entry["matched"])
}

func TestLogger_BlockScanError(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, nil))

	l.WithBlock(1).LogBlockScan(t.Context(), 1, 0, 0, errors.New("disk on fire"))
	assert.Contains(t, buf.String(), "block scan failed")
	assert.Contains(t, buf.String(), "disk on fire")

	buf.Reset()
	l.LogPrune(t.Context(), 4)
	assert.Empty(t, buf.String(), "prune is logged at debug level")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
	assert.NotNil(t, NewLogger(nil))
	assert.NotNil(t, NewJSONLogger(slog.LevelInfo))
	assert.NotNil(t, NewTextLogger(slog.LevelInfo))
}
