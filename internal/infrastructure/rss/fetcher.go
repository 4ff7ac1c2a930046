// Package rss implements feed fetching backed by gofeed.
package rss

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsDigest/internal/feed"
)

// Fetcher pulls RSS/Atom feeds and converts their items into raw entries.
type Fetcher struct {
	parser *gofeed.Parser
}

var _ feed.Fetcher = (*Fetcher)(nil)

// NewFetcher wires a gofeed parser; client may be nil for the default.
func NewFetcher(client *http.Client) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = "NewsDigest/1.0"
	if client != nil {
		parser.Client = client
	}
	return &Fetcher{parser: parser}
}

// Kind identifies the strategy inside the registry.
func (f *Fetcher) Kind() string {
	return feed.DefaultKind
}

// Fetch downloads and parses one source's feed. Entries published before the
// window start are discarded here, before any scoring happens; entries
// without a publication date count as published now and pass the filter.
func (f *Fetcher) Fetch(ctx context.Context, req feed.Request) ([]feed.Entry, error) {
	parsed, err := f.parser.ParseURLWithContext(req.Source.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", req.Source.FeedURL, err)
	}

	entries := make([]feed.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}

		published := publishedAt(item)
		effective := time.Now()
		if published != nil {
			effective = *published
		}
		if effective.Before(req.WindowStart) {
			continue
		}

		snippet := item.Content
		if snippet == "" {
			snippet = item.Description
		}

		entries = append(entries, feed.Entry{
			Title:     item.Title,
			Link:      item.Link,
			Published: published,
			Snippet:   snippet,
			Image:     itemImage(item),
		})
	}

	return entries, nil
}

func publishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}
