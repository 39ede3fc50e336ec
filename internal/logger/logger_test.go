package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kestrel.log")

	l, err := New(Config{Level: "debug", File: path})
	require.NoError(t, err)
	defer l.Close()

	log.Info().Str("component", "test").Msg("hello from test")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello from test"))
	assert.True(t, strings.Contains(string(data), `"component":"test"`))
}

func TestNew_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kestrel.log")

	l, err := New(Config{Level: "warn", File: path})
	require.NoError(t, err)
	defer l.Close()

	log.Info().Msg("should be filtered")
	log.Warn().Msg("should appear")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should be filtered")
	assert.Contains(t, string(data), "should appear")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "shouting", Console: true})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, zerolog.InfoLevel, l.GetZerolog().GetLevel())
}

func TestClose_NoFile(t *testing.T) {
	l, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}
