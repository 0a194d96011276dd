package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, cfg Config) (*Logger, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	cfg.writer = output

	l, err := New(&cfg)
	require.NoError(t, err)
	require.NotNil(t, l)

	return l, output
}

func TestNew_JSONFormat(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		log        func(l *Logger)
		wantLevel  string
		wantMsg    string
		wantFields map[string]interface{}
	}{
		{
			name:  "debug level logs debug",
			level: "debug",
			log: func(l *Logger) {
				l.Debug("test debug message", slog.String("key", "value"))
			},
			wantLevel:  "DEBUG",
			wantMsg:    "test debug message",
			wantFields: map[string]interface{}{"key": "value"},
		},
		{
			name:  "info level filters debug",
			level: "info",
			log: func(l *Logger) {
				l.Debug("dropped")
				l.Info("info message", slog.String("type", "test"))
			},
			wantLevel:  "INFO",
			wantMsg:    "info message",
			wantFields: map[string]interface{}{"type": "test"},
		},
		{
			name:  "warn level filters info",
			level: "warn",
			log: func(l *Logger) {
				l.Info("dropped")
				l.Warn("warn message", slog.String("severity", "high"))
			},
			wantLevel:  "WARN",
			wantMsg:    "warn message",
			wantFields: map[string]interface{}{"severity": "high"},
		},
		{
			name:  "error level filters warn",
			level: "error",
			log: func(l *Logger) {
				l.Warn("dropped")
				l.Error("error message", slog.String("code", "500"))
			},
			wantLevel:  "ERROR",
			wantMsg:    "error message",
			wantFields: map[string]interface{}{"code": "500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, output := newTestLogger(t, Config{
				Level:      tt.level,
				Format:     "json",
				TimeFormat: time.RFC3339,
			})

			tt.log(l)

			lines := strings.Split(strings.TrimSpace(output.String()), "\n")
			require.Len(t, lines, 1)

			var logEntry map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(lines[0]), &logEntry))

			assert.Equal(t, tt.wantLevel, logEntry["level"])
			assert.Equal(t, tt.wantMsg, logEntry["msg"])
			for k, v := range tt.wantFields {
				assert.Equal(t, v, logEntry[k])
			}
		})
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	l, output := newTestLogger(t, Config{
		Level:  "info",
		Format: "console",
	})

	l.Info("console test")

	// tint renders the level as "INF"
	assert.Contains(t, output.String(), "INF")
	assert.Contains(t, output.String(), "console test")
}

func TestNew_SourceLocation(t *testing.T) {
	l, output := newTestLogger(t, Config{
		Level:        "info",
		Format:       "json",
		EnableSource: true,
	})

	l.Info("message with source")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &logEntry))

	require.Contains(t, logEntry, "source")
	source := logEntry["source"].(map[string]interface{})
	assert.Contains(t, source, "file")
	assert.Contains(t, source, "line")
}

func TestNewDefault(t *testing.T) {
	l := NewDefault()
	require.NotNil(t, l)
	assert.NotNil(t, l.Logger)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestLogger_WithGroup(t *testing.T) {
	l, output := newTestLogger(t, Config{Level: "info", Format: "json"})

	l.WithGroup("transcode").Info("test message", slog.String("key", "value"))

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &logEntry))

	require.Contains(t, logEntry, "transcode")
	group := logEntry["transcode"].(map[string]interface{})
	assert.Equal(t, "value", group["key"])
}

func TestLogger_With(t *testing.T) {
	l, output := newTestLogger(t, Config{Level: "info", Format: "json"})

	l.With(slog.String("service", "api"), slog.Int("version", 1)).Info("operation complete")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &logEntry))

	assert.Equal(t, "api", logEntry["service"])
	assert.Equal(t, float64(1), logEntry["version"]) // JSON numbers are float64
	assert.Equal(t, "operation complete", logEntry["msg"])
}
