package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		expectedLevel zerolog.Level
	}{
		{name: "debug", level: "debug", expectedLevel: zerolog.DebugLevel},
		{name: "upper case", level: "WARN", expectedLevel: zerolog.WarnLevel},
		{name: "unknown falls back to info", level: "loud", expectedLevel: zerolog.InfoLevel},
		{name: "empty falls back to info", level: "", expectedLevel: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level, "json")
			assert.Equal(t, tt.expectedLevel, logger.GetLevel())
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")
	logger.Info().Str("id", "42").Msg("location created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "42", entry["id"])
	assert.Equal(t, "location created", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "console")
	logger.Info().Msg("location created")

	assert.Contains(t, buf.String(), "location created")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestInitTracerProvider_Disabled(t *testing.T) {
	tp, err := InitTracerProvider(context.Background(), TracingConfig{ServiceName: "customers-map"})
	require.NoError(t, err)
	assert.Nil(t, tp)
}
