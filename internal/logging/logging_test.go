package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"insightatlas/internal/config"
)

func TestGetBeforeInitialize(t *testing.T) {
	log := Get(CategoryEditorial)
	require.NotNil(t, log)
	// No-op until Initialize runs.
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(config.LoggingConfig{Debug: true, JSONFormat: true}))
	log := Get(CategoryBudget)
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	Sync()
}

func TestCategoryFiltering(t *testing.T) {
	require.NoError(t, Initialize(config.LoggingConfig{
		JSONFormat: true,
		Categories: []string{string(CategoryBudget)},
	}))

	assert.True(t, Get(CategoryBudget).Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Get(CategoryEditorial).Core().Enabled(zapcore.ErrorLevel),
		"filtered categories get a no-op logger")
}
