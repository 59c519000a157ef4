package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json output respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "warn", false)
		require.NoError(t, err)

		logger.Info().Msg("dropped")
		logger.Warn().Str("endpoint", "/products").Msg("kept")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "exactly one JSON line should be written")
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "kept", entry["message"])
		assert.Equal(t, "/products", entry["endpoint"])
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		logger, err := New(&bytes.Buffer{}, "", false)
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, "loud", false)
		assert.Error(t, err)
	})

	t.Run("pretty output is not json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "info", true)
		require.NoError(t, err)

		logger.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.False(t, json.Valid(buf.Bytes()))
	})
}
