package feed

import (
	"context"
	"fmt"
	"time"

	"NewsDigest/internal/domain"
)

// Entry is one raw feed item as returned by a fetcher. Entries are ephemeral:
// they live only for the duration of a single ingestion run.
type Entry struct {
	Title     string
	Link      string
	Published *time.Time
	Snippet   string
	Image     string
}

// Request carries all parameters required to fetch one source.
type Request struct {
	Source      domain.Source
	WindowStart time.Time
}

// Fetcher captures a single fetch strategy (RSS/Atom today, others later).
type Fetcher interface {
	Kind() string
	Fetch(ctx context.Context, req Request) ([]Entry, error)
}

// DefaultKind is assumed for sources that do not declare a fetch strategy.
const DefaultKind = "rss"

// Registry keeps a mapping from fetcher kinds to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a fetcher implementation.
func (r *Registry) Register(f Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[f.Kind()] = f
}

// Resolve returns a fetcher for the source's kind or an error if it is absent.
func (r *Registry) Resolve(kind string) (Fetcher, error) {
	if kind == "" {
		kind = DefaultKind
	}
	if f, ok := r.fetchers[kind]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("fetcher %s is not registered", kind)
}
