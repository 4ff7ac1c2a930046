package domain

import "time"

// Source is a configured feed endpoint with a relevance weight and topic tag.
// Sources are read-only to the ingestion core; admin tooling owns mutation.
type Source struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	FeedURL     string     `json:"feed_url" yaml:"feedUrl"`
	Topic       string     `json:"topic" yaml:"topic"`
	Weight      float64    `json:"weight" yaml:"weight"`
	Active      bool       `json:"active" yaml:"active"`
	Kind        string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	LastFetched *time.Time `json:"last_fetched,omitempty" yaml:"-"`
	ErrorCount  int        `json:"error_count,omitempty" yaml:"-"`
}

// Status is a human curation decision attached to a digest item.
type Status string

const (
	StatusNew      Status = "new"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPinned   Status = "pinned"
)

// Valid reports whether s is one of the known curation statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusApproved, StatusRejected, StatusPinned:
		return true
	}
	return false
}

// DigestItem is one scored, deduplicated entry of a digest run.
type DigestItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	SourceID    string     `json:"source_id"`
	SourceName  string     `json:"source_name"`
	PublishedAt *time.Time `json:"published_at"`
	Topics      []string   `json:"topics"`
	Tags        []string   `json:"tags"`
	SummaryHint string     `json:"summary_hint"`
	Score       int        `json:"score"`
	Status      Status     `json:"status"`
	Image       string     `json:"image,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// DigestSnapshot is the aggregate artifact of one ingestion run. A new run
// produces a new snapshot; only the curation-save pathway patches one in place.
type DigestSnapshot struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	WindowStart time.Time    `json:"window_start"`
	WindowEnd   time.Time    `json:"window_end"`
	Sources     []Source     `json:"sources"`
	Items       []DigestItem `json:"items"`
}
