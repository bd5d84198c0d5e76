package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandlerLevels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{level: "debug", debugSeen: true, infoSeen: true, warnSeen: true},
		{level: "info", infoSeen: true, warnSeen: true},
		{level: "warning", warnSeen: true},
		{level: "error"},
		{level: "bogus", infoSeen: true, warnSeen: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(tt.level, "text", &buf))

			logger.Debug("debug-line")
			logger.Info("info-line")
			logger.Warn("warn-line")

			out := buf.String()
			assert.Equal(t, tt.debugSeen, bytes.Contains([]byte(out), []byte("debug-line")))
			assert.Equal(t, tt.infoSeen, bytes.Contains([]byte(out), []byte("info-line")))
			assert.Equal(t, tt.warnSeen, bytes.Contains([]byte(out), []byte("warn-line")))
		})
	}
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler("info", "json", &buf))
	logger.Info("hello", "apps", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.EqualValues(t, 3, rec["apps"])
}

func TestSetupInstallsDefault(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	var buf bytes.Buffer
	logger := Setup("info", "json", &buf)
	assert.Same(t, logger, slog.Default())

	slog.Info("through default")
	assert.Contains(t, buf.String(), "through default")
}
