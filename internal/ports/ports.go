package ports

import (
	"context"
	"errors"
	"time"

	"NewsDigest/internal/domain"
)

// ErrNoSnapshot signals that no latest snapshot exists in the store yet.
// Callers treat it as "no previous state", not as a failure.
var ErrNoSnapshot = errors.New("no digest snapshot")

// ItemSource produces the scored, deduplicated, sorted item set for one run.
type ItemSource interface {
	Aggregate(ctx context.Context, sources []domain.Source, windowStart, now time.Time) []domain.DigestItem
}

// SnapshotStore persists digest snapshots in an external key-value store.
// LoadLatest returns ErrNoSnapshot when no snapshot has been written yet.
type SnapshotStore interface {
	LoadLatest(ctx context.Context) (domain.DigestSnapshot, error)
	SaveLatest(ctx context.Context, snapshot domain.DigestSnapshot) error
	Archive(ctx context.Context, snapshot domain.DigestSnapshot) error
}

// Notifier streams run summaries to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// DraftClient hands the digest JSON to the newsletter draft generator.
type DraftClient interface {
	SendDigest(ctx context.Context, payload []byte) error
}

// Scheduler controls when ingestion runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
