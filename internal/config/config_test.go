package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"NewsDigest/internal/domain"
)

func TestMergeConfigCanDisableArchive(t *testing.T) {
	t.Parallel()

	disabled := false
	merged := mergeConfig(defaultConfig(), Config{Store: StoreConfig{Archive: &disabled}})

	assert.False(t, merged.Store.ArchiveEnabled())
}

func TestMergeConfigArchiveDefaultsOn(t *testing.T) {
	t.Parallel()

	merged := mergeConfig(defaultConfig(), Config{Store: StoreConfig{Kind: "redis"}})

	assert.True(t, merged.Store.ArchiveEnabled())
	assert.Equal(t, "redis", merged.Store.Kind)
}

func TestMergeConfigOverridesSelectively(t *testing.T) {
	t.Parallel()

	override := Config{
		Logging:   LoggingConfig{Level: "error"},
		Scheduler: SchedulerConfig{Interval: "30m"},
		Ingest:    IngestConfig{MaxItems: 10},
		Sources:   []domain.Source{{ID: "only", FeedURL: "https://example.com/rss", Active: true}},
	}

	merged := mergeConfig(defaultConfig(), override)

	assert.Equal(t, "error", merged.Logging.Level)
	assert.Equal(t, "text", merged.Logging.Format) // untouched default
	assert.Equal(t, 30*time.Minute, merged.Scheduler.Every())
	assert.Equal(t, 10, merged.Ingest.MaxItems)
	assert.Equal(t, 5, merged.Ingest.WindowDays)
	assert.Len(t, merged.Sources, 1)
	assert.Equal(t, "only", merged.Sources[0].ID)
}

func TestSchedulerEveryFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6*time.Hour, SchedulerConfig{}.Every())
	assert.Equal(t, 6*time.Hour, SchedulerConfig{Interval: "often"}.Every())
	assert.Equal(t, 6*time.Hour, SchedulerConfig{Interval: "-1h"}.Every())
	assert.Equal(t, 90*time.Second, SchedulerConfig{Interval: "90s"}.Every())
}
