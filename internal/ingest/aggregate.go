package ingest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/feed"
	"NewsDigest/internal/ports"
)

// Aggregator fans out one fetch task per active source, scores and
// normalizes the results, and reduces them into a single deduplicated,
// sorted item list. A failing source contributes zero items and never
// delays or aborts the others.
type Aggregator struct {
	registry   *feed.Registry
	normalizer *Normalizer
	keywords   map[string]int
	timeout    time.Duration
	logger     *slog.Logger
}

var _ ports.ItemSource = (*Aggregator)(nil)

// AggregatorDeps wires the fetch registry and scoring configuration.
type AggregatorDeps struct {
	Registry      *feed.Registry
	Keywords      map[string]int
	SummaryMaxLen int
	FetchTimeout  time.Duration
	Logger        *slog.Logger
}

// NewAggregator constructs the fan-out/fan-in component.
func NewAggregator(deps AggregatorDeps) *Aggregator {
	timeout := deps.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Aggregator{
		registry:   deps.Registry,
		normalizer: NewNormalizer(deps.SummaryMaxLen),
		keywords:   deps.Keywords,
		timeout:    timeout,
		logger:     deps.Logger,
	}
}

type sourceResult struct {
	source  domain.Source
	entries []feed.Entry
}

// Aggregate runs all active sources concurrently and returns the merged,
// deduplicated item list sorted by score. Deduplication happens as a
// single-threaded reduction on the fan-in side, so the first source to
// deliver a URL wins and no lock is needed around the seen set. No cap is
// applied here; output shaping belongs to the caller.
func (a *Aggregator) Aggregate(ctx context.Context, sources []domain.Source, windowStart, now time.Time) []domain.DigestItem {
	active := make([]domain.Source, 0, len(sources))
	for _, src := range sources {
		if src.Active {
			active = append(active, src)
		}
	}
	if len(active) == 0 {
		return nil
	}

	results := make(chan sourceResult, len(active))

	var g errgroup.Group
	for _, src := range active {
		src := src
		g.Go(func() error {
			results <- sourceResult{source: src, entries: a.fetchSource(ctx, src, windowStart)}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	seen := map[string]struct{}{}
	var items []domain.DigestItem
	for res := range results {
		for _, entry := range res.entries {
			url := strings.TrimSpace(entry.Link)
			if url == "" {
				continue
			}
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}

			item := a.normalizer.Item(entry, res.source)
			item.Score = Score(entry, res.source, a.keywords, now)
			items = append(items, item)
		}
	}

	SortItems(items)
	return items
}

// fetchSource runs one bounded fetch. Errors are logged and swallowed here:
// a failed source is expected to succeed on the next scheduled run.
func (a *Aggregator) fetchSource(ctx context.Context, src domain.Source, windowStart time.Time) []feed.Entry {
	fetcher, err := a.registry.Resolve(src.Kind)
	if err != nil {
		a.warn("no fetcher for source", "source", src.ID, "kind", src.Kind, "error", err)
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	entries, err := fetcher.Fetch(fetchCtx, feed.Request{Source: src, WindowStart: windowStart})
	if err != nil {
		a.warn("source fetch failed", "source", src.ID, "url", src.FeedURL, "error", err)
		return nil
	}

	a.debug("source fetched", "source", src.ID, "entries", len(entries))
	return entries
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
