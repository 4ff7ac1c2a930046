package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

func sampleSnapshot(generatedAt time.Time) domain.DigestSnapshot {
	published := generatedAt.Add(-3 * time.Hour)
	return domain.DigestSnapshot{
		RunID:       "run-1",
		GeneratedAt: generatedAt,
		WindowStart: generatedAt.Add(-120 * time.Hour),
		WindowEnd:   generatedAt,
		Sources:     []domain.Source{{ID: "go-blog", Name: "The Go Blog", Weight: 1.2, Active: true}},
		Items: []domain.DigestItem{
			{
				ID:          "abc123",
				Title:       "Go 1.26 released",
				URL:         "https://go.dev/blog/go1.26",
				SourceID:    "go-blog",
				PublishedAt: &published,
				Topics:      []string{"engineering"},
				Tags:        []string{},
				Score:       42,
				Status:      domain.StatusApproved,
				Notes:       "lead story",
			},
		},
	}
}

func TestFileStoreMissingLatest(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.LoadLatest(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoSnapshot)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	generatedAt := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	want := sampleSnapshot(generatedAt)

	ctx := context.Background()
	require.NoError(t, store.SaveLatest(ctx, want))

	got, err := store.LoadLatest(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.RunID, got.RunID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, domain.StatusApproved, got.Items[0].Status)
	assert.Equal(t, "lead story", got.Items[0].Notes)
	assert.Equal(t, 42, got.Items[0].Score)
	require.NotNil(t, got.Items[0].PublishedAt)
	assert.True(t, got.Items[0].PublishedAt.Equal(*want.Items[0].PublishedAt))
}

func TestFileStoreOverwriteLatest(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	first := sampleSnapshot(time.Now().UTC())
	require.NoError(t, store.SaveLatest(ctx, first))

	second := first
	second.RunID = "run-2"
	require.NoError(t, store.SaveLatest(ctx, second))

	got, err := store.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.RunID)
}

func TestFileStoreArchiveByDate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	snapshot := sampleSnapshot(time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC))
	require.NoError(t, store.Archive(context.Background(), snapshot))

	_, err = os.Stat(filepath.Join(dir, "archive", "2026-08-28.json"))
	assert.NoError(t, err)
}
