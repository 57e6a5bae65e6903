package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "cbt.db", cfg.DBPath)
	assert.Equal(t, 3600, cfg.ExamSeconds)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 80, cfg.Breakpoint)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("CBT_API_BASE_URL", "https://api.example.com/")
	t.Setenv("CBT_EXAM_SECONDS", "90")
	t.Setenv("CBT_LOG_LEVEL", "DEBUG")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 90, cfg.ExamSeconds)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestFromViper_RejectsInvalid(t *testing.T) {
	t.Setenv("CBT_PAGE_SIZE", "0")

	_, err := FromViper(newViper())
	assert.Error(t, err)
}
