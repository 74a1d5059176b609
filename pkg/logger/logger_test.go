package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.level))
		})
	}
}

func TestLogger_JSONFieldsAndCaller(t *testing.T) {
	var buf bytes.Buffer
	l := build(Config{Level: "debug", Format: "json", Output: &buf})

	l.WithContext(map[string]interface{}{"session_id": "abc"}).
		Error("Regeneration failed", errors.New("boom"), map[string]interface{}{"options": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "Regeneration failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, float64(3), entry["options"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}
