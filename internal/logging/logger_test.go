package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Out: &buf})

	log.Debug().Int("tick", 3).Msg("progress")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "progress", entry["message"])
	assert.Equal(t, float64(3), entry["tick"])
	assert.Contains(t, entry, "time")
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		log := New(Config{Level: tt.in, Out: &bytes.Buffer{}})
		assert.Equal(t, tt.want, log.GetLevel(), tt.in)
	}
}

func TestInfoSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Out: &buf})
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestDefaultConfigIsPrettyInfo(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	cfg.Out = &buf

	log := New(cfg)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log.Info().Msg("ready")
	assert.Contains(t, buf.String(), "ready")
	assert.False(t, json.Valid(buf.Bytes()), "pretty output should not be JSON: %q", buf.String())
}
