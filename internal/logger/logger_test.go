package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create logger with console output", func(t *testing.T) {
		logger, err := New(Config{Level: "info", Console: true})
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Nil(t, logger.Redactor())
		assert.NoError(t, logger.Close())
	})

	t.Run("create logger with file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "batai.log")

		logger, err := New(Config{Level: "debug", File: logFile})
		require.NoError(t, err)

		logger.Info().Str("tool", "textProcessor").Msg("test message")
		require.NoError(t, logger.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"tool":"textProcessor"`)
	})

	t.Run("redaction masks secrets in file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "batai.log")

		logger, err := New(Config{Level: "info", File: logFile, Redaction: true})
		require.NoError(t, err)
		require.NotNil(t, logger.Redactor())

		logger.Info().Str("key", "sk-ant-REDACTED").Msg("configured")
		require.NoError(t, logger.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), Redacted)
		assert.NotContains(t, string(data), "sk-ant-api03")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger, err := New(Config{Level: "loud"})
		require.NoError(t, err)
		defer logger.Close()

		assert.Equal(t, zerolog.InfoLevel, logger.GetZerolog().GetLevel())
	})

	t.Run("installs global logger", func(t *testing.T) {
		logger, err := New(Config{Level: "warn"})
		require.NoError(t, err)
		defer logger.Close()

		assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())
	})
}

func TestLoggerMethods(t *testing.T) {
	logger, err := New(Config{Level: "debug", File: filepath.Join(t.TempDir(), "test.log")})
	require.NoError(t, err)
	defer logger.Close()

	assert.NotNil(t, logger.Debug())
	assert.NotNil(t, logger.Info())
	assert.NotNil(t, logger.Warn())
	assert.NotNil(t, logger.Error())

	child := logger.With().Str("component", "test").Logger()
	assert.Equal(t, zerolog.DebugLevel, child.GetLevel())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Console)
	assert.True(t, cfg.Pretty)
	assert.True(t, cfg.Redaction)
	assert.Empty(t, cfg.File)
}
