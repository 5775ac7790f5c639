package logger

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("shown")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "shown", line["message"])
	require.Equal(t, "warn", line["level"])
	require.Contains(t, line, "time")
	require.Contains(t, line, "caller")
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestNewPrettyAndBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "nonsense", "pretty")

	log.Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
