package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := newLogger(&buf, "warn", "")
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", zap.String("event", "shift.start"))
	require.NoError(t, closeFn())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "shift.start")
}

func TestFileCoreWritesJSONAtDebug(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "shiftlog.log")
	log, closeFn, err := newLogger(&buf, "error", path)
	require.NoError(t, err)
	log.Debug("state changed", zap.String("event", "patrol.end"))
	require.NoError(t, closeFn())

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "state changed", entry["msg"])
	assert.Equal(t, "patrol.end", entry["event"])
	assert.Contains(t, entry, "timestamp")
}

func TestInvalidLevel(t *testing.T) {
	_, _, err := New("chatty", "")
	require.Error(t, err)
}
