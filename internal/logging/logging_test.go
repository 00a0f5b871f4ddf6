package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(buf *bytes.Buffer) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return zerolog.New(buf)
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := captureLogger(&buf)

	log = WithComponent(log, "store")
	log = WithTicker(log, "7203")
	log = WithDataKind(log, "stock_data")
	log.Info().Msg("loaded")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "7203", entry["ticker"])
	assert.Equal(t, "stock_data", entry["kind"])
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := captureLogger(&buf)

	ctx := WithLogger(context.Background(), WithComponent(log, "server"))
	ctxLog := FromContext(ctx)
	ctxLog.Info().Msg("from context")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "server", entry["component"])
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestLogCacheEvent(t *testing.T) {
	var buf bytes.Buffer
	log := captureLogger(&buf)

	LogCacheEvent(log, "hit", "7203", "stock_data")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "hit", entry["event"])
	assert.Equal(t, "7203", entry["ticker"])
	assert.Equal(t, "stock_data", entry["kind"])
}

func TestLogLoad(t *testing.T) {
	var buf bytes.Buffer
	log := captureLogger(&buf)

	LogLoad(log, "7203", "dividend_data", 12, 3*time.Millisecond)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "load", entry["event"])
	assert.Equal(t, float64(12), entry["rows"])
}
