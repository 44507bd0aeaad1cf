package util

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("const x = 1;"))
	b := ContentHash([]byte("const x = 1;"))
	c := ContentHash([]byte("const x = 2;"))

	assert.Equal(t, a, b, "identical content should hash identically")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "sha256 hex digest is 64 characters")

	// Empty content still yields a stable key.
	assert.Equal(t, ContentHash(nil), ContentHash([]byte{}))
}

func TestGetOptimalPoolSize(t *testing.T) {
	size := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 32)

	expected := runtime.NumCPU() * 2
	if expected < 4 {
		expected = 4
	}
	if expected > 32 {
		expected = 32
	}
	assert.Equal(t, expected, size)
}

func TestGetOptimalPoolSizeWithOverride(t *testing.T) {
	assert.Equal(t, 8, GetOptimalPoolSizeWithOverride(8))
	assert.Equal(t, GetOptimalPoolSize(), GetOptimalPoolSizeWithOverride(0))
	assert.Equal(t, GetOptimalPoolSize(), GetOptimalPoolSizeWithOverride(-1))
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("analysis complete", "files", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysis complete", entry["msg"])
	assert.Equal(t, float64(3), entry["files"])
}

func TestNewLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "verbose", Format: FormatText, Output: &buf})

	logger.Debug("hidden")
	logger.Info("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig()
	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.NotNil(t, cfg.Output)
}
