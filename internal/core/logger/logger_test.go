package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuildJSON(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "warn", JSON: true, Output: zapcore.AddSync(&buf)})
	l.Info("dropped")
	l.Warn("kept", zap.String("k", "v"))
	cleanup()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "v", entry["k"])
	assert.Contains(t, entry, "ts")
}

func TestBuildRotate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, cleanup := Build(Options{
		Level:  "info",
		JSON:   true,
		Output: zapcore.AddSync(&buf),
		Rotate: FileRotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("to file")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "to file")
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "debug", JSON: true, Output: zapcore.AddSync(&buf)})
	w := ToWriter(l, zapcore.WarnLevel)
	_, err := fmt.Fprintln(w, "slow sql")
	require.NoError(t, err)
	cleanup()

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"msg":"slow sql"`)
}

func TestNewBootstrapLogger(t *testing.T) {
	l, done := New("debug", false)
	defer done()
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, done2 := New("nonsense", true)
	defer done2()
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
