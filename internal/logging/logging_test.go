package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"":        zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"chatty":  zapcore.WarnLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewWritesJSONToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Output: &buf})
	log.Info("request finished", zap.String("route", "/trips/{id}"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request finished", entry["msg"])
	assert.Equal(t, "/trips/{id}", entry["route"])
	assert.Equal(t, "info", entry["level"])
}

func TestVerboseAndQuiet(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: "error", Verbose: true, Output: &buf}).Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	q := New(Config{Level: "debug", Quiet: true, Output: &buf})
	q.Warn("hidden")
	assert.Empty(t, buf.String())
	q.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Format: "console", Level: "info", Output: &buf}).Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"msg"`)
}
