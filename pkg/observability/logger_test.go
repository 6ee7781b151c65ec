package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/opskit/stockroom/pkg/contextkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeLogLine parses the last JSON log line written to the buffer.
func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.Info("server started")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "server started", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WarnLevel, &buf)

	logger.Debug("noise")
	logger.Info("noise")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "kept", entry["msg"])
}

func TestLoggerFormattedMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf)

	logger.Debugf("listening on %s", ":8080")
	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "listening on :8080", entry["msg"])

	buf.Reset()
	logger.Errorf("failed after %d attempts", 3)
	entry = decodeLogLine(t, &buf)
	assert.Equal(t, "failed after 3 attempts", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("component", "auth").Info("login")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "auth", entry["component"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"table": "products",
		"rows":  4,
	}).Info("listed")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "products", entry["table"])
	assert.Equal(t, float64(4), entry["rows"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(errors.New("connection refused")).Error("query failed")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "connection refused", entry["error"])
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(nil).Info("fine")

	entry := decodeLogLine(t, &buf)
	assert.NotContains(t, entry, "error")
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	_ = logger.WithField("component", "auth")
	logger.Info("plain")

	entry := decodeLogLine(t, &buf)
	assert.NotContains(t, entry, "component")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
}

func TestGetLoggerFallback(t *testing.T) {
	logger := GetLogger(context.Background())
	assert.NotNil(t, logger)
}

func TestFromContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	ctx := contextkeys.WithLogger(context.Background(), logger)
	ctx = contextkeys.WithRequestID(ctx, "req-123")

	FromContext(ctx).Info("handled")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
}
