package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "info", Format: "json", Output: buf})

	l.Info("storage ready")

	entry := decodeLine(t, buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "storage ready", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "info", Format: "json", Output: buf})

	l.With().
		Str("key", "1700000000000-report.pdf").
		Int64("size", 12).
		Logger().
		Info("file uploaded")

	entry := decodeLine(t, buf)
	assert.Equal(t, "1700000000000-report.pdf", entry["key"])
	assert.Equal(t, float64(12), entry["size"])
}

func TestLogger_ErrorWith(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "error", Format: "json", Output: buf})

	l.ErrorWith("save metadata failed", errors.New("disk full"), map[string]any{"key": "k"})

	entry := decodeLine(t, buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "k", entry["key"])
}

func TestLogger_Context(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "info", Format: "json", Output: buf})

	ctx := l.WithContext(context.Background())
	FromContext(ctx).Info("from context")

	entry := decodeLine(t, buf)
	assert.Equal(t, "from context", entry["message"])
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		logFunc func(*Logger)
		logged  bool
	}{
		{"debug level logs debug", "debug", func(l *Logger) { l.Debug("d") }, true},
		{"info level skips debug", "info", func(l *Logger) { l.Debug("d") }, false},
		{"error level skips warn", "error", func(l *Logger) { l.Warn("w") }, false},
		{"warn level logs error", "warn", func(l *Logger) { l.Error("e") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(New(&Config{Level: tt.level, Format: "json", Output: buf}))
			if tt.logged {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLogger_AccessLevelFollowsStatus(t *testing.T) {
	for status, want := range map[int]string{200: "info", 404: "warn", 500: "error"} {
		buf := &bytes.Buffer{}
		New(&Config{Level: "debug", Format: "json", Output: buf}).Access(status).Msg("request")
		assert.Equal(t, want, decodeLine(t, buf)["level"], "status %d", status)
	}
}
