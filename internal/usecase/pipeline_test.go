package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// memStore is an in-memory SnapshotStore with injectable failures.
type memStore struct {
	latest   *domain.DigestSnapshot
	archived []domain.DigestSnapshot
	loadErr  error
	saveErr  error
}

func (m *memStore) LoadLatest(context.Context) (domain.DigestSnapshot, error) {
	if m.loadErr != nil {
		return domain.DigestSnapshot{}, m.loadErr
	}
	if m.latest == nil {
		return domain.DigestSnapshot{}, ports.ErrNoSnapshot
	}
	return *m.latest, nil
}

func (m *memStore) SaveLatest(_ context.Context, snapshot domain.DigestSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.latest = &snapshot
	return nil
}

func (m *memStore) Archive(_ context.Context, snapshot domain.DigestSnapshot) error {
	m.archived = append(m.archived, snapshot)
	return nil
}

// staticSource returns a fixed item list for every run.
type staticSource struct {
	items []domain.DigestItem
}

func (s *staticSource) Aggregate(context.Context, []domain.Source, time.Time, time.Time) []domain.DigestItem {
	out := make([]domain.DigestItem, len(s.items))
	copy(out, s.items)
	return out
}

func freshItem(id string, score int) domain.DigestItem {
	return domain.DigestItem{ID: id, Score: score, Status: domain.StatusNew}
}

func TestRunCurationSurvivesReingestion(t *testing.T) {
	t.Parallel()

	store := &memStore{latest: &domain.DigestSnapshot{
		Items: []domain.DigestItem{
			{ID: "h1", Status: domain.StatusRejected, Notes: "dup", Score: 10},
		},
	}}

	pipeline := NewPipeline(PipelineDeps{
		Source:   &staticSource{items: []domain.DigestItem{freshItem("h1", 40), freshItem("h2", 20)}},
		Store:    store,
		Window:   120 * time.Hour,
		MaxItems: 60,
	})

	now := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	require.NoError(t, pipeline.Run(context.Background(), now))

	require.NotNil(t, store.latest)
	require.Len(t, store.latest.Items, 2)
	assert.Equal(t, domain.StatusRejected, store.latest.Items[0].Status)
	assert.Equal(t, "dup", store.latest.Items[0].Notes)
	assert.Equal(t, 40, store.latest.Items[0].Score)
	assert.Equal(t, domain.StatusNew, store.latest.Items[1].Status)
}

func TestRunFirstEverRunStartsEmpty(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	pipeline := NewPipeline(PipelineDeps{
		Source:   &staticSource{items: []domain.DigestItem{freshItem("h1", 30)}},
		Store:    store,
		Window:   120 * time.Hour,
		MaxItems: 60,
	})

	require.NoError(t, pipeline.Run(context.Background(), time.Now()))
	require.NotNil(t, store.latest)
	assert.Equal(t, domain.StatusNew, store.latest.Items[0].Status)
}

func TestRunEnforcesCap(t *testing.T) {
	t.Parallel()

	items := make([]domain.DigestItem, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		items = append(items, freshItem(id, 50-len(items)))
	}

	store := &memStore{}
	pipeline := NewPipeline(PipelineDeps{
		Source:   &staticSource{items: items},
		Store:    store,
		Window:   120 * time.Hour,
		MaxItems: 3,
	})

	require.NoError(t, pipeline.Run(context.Background(), time.Now()))
	require.NotNil(t, store.latest)
	require.Len(t, store.latest.Items, 3)
	assert.Equal(t, "a", store.latest.Items[0].ID)
	assert.Equal(t, "c", store.latest.Items[2].ID)
}

func TestRunSnapshotMetadata(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	sources := []domain.Source{{ID: "s1", Active: true}}
	pipeline := NewPipeline(PipelineDeps{
		Source:   &staticSource{},
		Store:    store,
		Sources:  sources,
		Window:   120 * time.Hour,
		MaxItems: 60,
		Archive:  true,
	})

	now := time.Date(2026, time.August, 28, 6, 0, 0, 0, time.UTC)
	require.NoError(t, pipeline.Run(context.Background(), now))

	require.NotNil(t, store.latest)
	assert.NotEmpty(t, store.latest.RunID)
	assert.True(t, store.latest.GeneratedAt.Equal(now))
	assert.True(t, store.latest.WindowStart.Equal(now.Add(-120*time.Hour)))
	assert.True(t, store.latest.WindowEnd.Equal(now))
	assert.Equal(t, sources, store.latest.Sources)
	require.Len(t, store.archived, 1)
	assert.Equal(t, store.latest.RunID, store.archived[0].RunID)
}

func TestRunDistinctRunIDs(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	pipeline := NewPipeline(PipelineDeps{
		Source:   &staticSource{},
		Store:    store,
		Window:   time.Hour,
		MaxItems: 10,
	})

	ctx := context.Background()
	require.NoError(t, pipeline.Run(ctx, time.Now()))
	first := store.latest.RunID
	require.NoError(t, pipeline.Run(ctx, time.Now()))

	assert.NotEqual(t, first, store.latest.RunID)
}

func TestRunStoreFailuresAreFatal(t *testing.T) {
	t.Parallel()

	loadBroken := &memStore{loadErr: errors.New("store unreachable")}
	pipeline := NewPipeline(PipelineDeps{Source: &staticSource{}, Store: loadBroken, Window: time.Hour})
	assert.Error(t, pipeline.Run(context.Background(), time.Now()))

	saveBroken := &memStore{saveErr: errors.New("store unreachable")}
	pipeline = NewPipeline(PipelineDeps{Source: &staticSource{}, Store: saveBroken, Window: time.Hour})
	assert.Error(t, pipeline.Run(context.Background(), time.Now()))
}
