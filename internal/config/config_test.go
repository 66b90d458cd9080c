package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.History.Backend)
	assert.Equal(t, "played_tracks", cfg.History.Key)
	assert.Equal(t, 4, cfg.Game.MinCategories)
	assert.Equal(t, 6, cfg.Game.MaxCategories)
	assert.True(t, cfg.Game.AutoTimers)
	assert.True(t, cfg.Scoring.NegativeOnMiss)
	assert.Equal(t, 500*time.Millisecond, cfg.Pipeline.CategoryDelay)
	assert.Equal(t, 20, cfg.Pipeline.TriviaBatch)
	assert.Equal(t, "https://opentdb.com", cfg.Providers.OpenTDBURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SCORING_NEGATIVE_ON_MISS", "false")
	t.Setenv("PIPELINE_CATEGORY_DELAY", "0s")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.History.Backend)
	assert.False(t, cfg.Scoring.NegativeOnMiss)
	assert.Zero(t, cfg.Pipeline.CategoryDelay)
}

func TestLoadRejectsInconsistentSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"redis without address":    {"HISTORY_BACKEND": "redis"},
		"postgres without dsn":     {"HISTORY_BACKEND": "postgres"},
		"unknown backend":          {"HISTORY_BACKEND": "sqlite"},
		"inverted category bounds": {"GAME_MIN_CATEGORIES": "5", "GAME_MAX_CATEGORIES": "4"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(context.Background())
			assert.Error(t, err)
		})
	}
}
