package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ingest"
	"NewsDigest/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source      ports.ItemSource
	Store       ports.SnapshotStore
	Notifier    ports.Notifier
	DraftClient ports.DraftClient
	Logger      *slog.Logger

	Sources  []domain.Source
	Window   time.Duration
	MaxItems int
	Archive  bool
}

// Pipeline implements the digest ingestion workflow: load the previous
// snapshot, aggregate fresh items, merge curation statuses forward, cap,
// and persist the new snapshot.
type Pipeline struct {
	source      ports.ItemSource
	store       ports.SnapshotStore
	notifier    ports.Notifier
	draftClient ports.DraftClient
	logger      *slog.Logger

	sources  []domain.Source
	window   time.Duration
	maxItems int
	archive  bool
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:      deps.Source,
		store:       deps.Store,
		notifier:    deps.Notifier,
		draftClient: deps.DraftClient,
		logger:      deps.Logger,
		sources:     deps.Sources,
		window:      deps.Window,
		maxItems:    deps.MaxItems,
		archive:     deps.Archive,
	}
}

// Run executes one ingestion run anchored at now. Per-source failures were
// already swallowed upstream; the only fatal errors here are store I/O.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	if p.source == nil || p.store == nil {
		return nil
	}

	windowStart := now.Add(-p.window)

	previous, err := p.store.LoadLatest(ctx)
	if errors.Is(err, ports.ErrNoSnapshot) {
		p.info("no previous snapshot, all items start new")
		previous = domain.DigestSnapshot{}
	} else if err != nil {
		return fmt.Errorf("load previous snapshot: %w", err)
	}

	fresh := p.source.Aggregate(ctx, p.sources, windowStart, now)
	items := ingest.Cap(ingest.MergeStatuses(fresh, previous.Items), p.maxItems)

	snapshot := domain.DigestSnapshot{
		RunID:       uuid.NewString(),
		GeneratedAt: now,
		WindowStart: windowStart,
		WindowEnd:   now,
		Sources:     p.sources,
		Items:       items,
	}

	if err := p.store.SaveLatest(ctx, snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if p.archive {
		if err := p.store.Archive(ctx, snapshot); err != nil {
			p.warn("archive snapshot failed", "run_id", snapshot.RunID, "error", err)
		}
	}

	p.info("run complete",
		"run_id", snapshot.RunID,
		"items", len(items),
		"window_start", windowStart.Format(time.RFC3339))

	// Outbound hand-offs are best effort; a failed draft or notification
	// does not invalidate the persisted snapshot.
	if p.draftClient != nil && len(items) > 0 {
		payload, err := buildDigestJSON(items)
		if err != nil {
			p.warn("build draft payload failed", "error", err)
		} else if err := p.draftClient.SendDigest(ctx, payload); err != nil {
			p.warn("send digest to draft generator failed", "error", err)
		}
	}

	if p.notifier != nil && len(items) > 0 {
		if err := p.notifier.PublishDigest(ctx, buildDigestMessage(items)); err != nil {
			p.warn("publish digest failed", "error", err)
		}
	}

	return nil
}

// topLines is how many items the notification message shows.
const topLines = 10

func buildDigestMessage(items []domain.DigestItem) string {
	var formatted string
	for i, item := range items {
		if i == topLines {
			break
		}
		formatted += fmt.Sprintf("- %s\nScore: %d\n%s\n\n", item.Title, item.Score, item.URL)
	}
	return formatted
}

func buildDigestJSON(items []domain.DigestItem) ([]byte, error) {
	type entry struct {
		ID      string `json:"id"`
		URL     string `json:"url"`
		Title   string `json:"title"`
		Source  string `json:"source"`
		Summary string `json:"summary"`
		Score   int    `json:"score"`
		Status  string `json:"status"`
	}

	payload := make([]entry, 0, len(items))
	for _, item := range items {
		payload = append(payload, entry{
			ID:      item.ID,
			URL:     item.URL,
			Title:   item.Title,
			Source:  item.SourceName,
			Summary: item.SummaryHint,
			Score:   item.Score,
			Status:  string(item.Status),
		})
	}

	return json.Marshal(payload)
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
