package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		ResetLevel()
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		ok       bool
	}{
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"DEBUG", LevelDebug, true},
		{" Error ", LevelError, true},
		{"", LevelInfo, false},
		{"verbose", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestLevelFromEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		debug    string
		logLevel string
		expected LogLevel
	}{
		{"default is info", "", "", LevelInfo},
		{"LOG_LEVEL warn", "", "warn", LevelWarn},
		{"DEBUG overrides LOG_LEVEL", "true", "error", LevelDebug},
		{"DEBUG falsy ignored", "0", "error", LevelError},
		{"invalid LOG_LEVEL falls back to info", "", "loud", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEBUG", tt.debug)
			t.Setenv("LOG_LEVEL", tt.logLevel)
			ResetLevel()
			t.Cleanup(ResetLevel)

			assert.Equal(t, tt.expected, GetLevel())
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(LevelWarn)

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "[DEBUG]")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
	assert.False(t, IsDebugEnabled())
}

func TestDebugEnabled(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(LevelDebug)

	Debug("probing %s", "a.mp3")

	assert.True(t, IsDebugEnabled())
	assert.Contains(t, buf.String(), "[DEBUG] probing a.mp3")
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}
