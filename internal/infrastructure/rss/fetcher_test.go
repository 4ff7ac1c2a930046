package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/feed"
)

func rssDocument(now time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <title>Fresh article</title>
      <link>https://example.com/fresh</link>
      <pubDate>%s</pubDate>
      <description>&lt;p&gt;Fresh body&lt;/p&gt;</description>
    </item>
    <item>
      <title>Aged out</title>
      <link>https://example.com/old</link>
      <pubDate>%s</pubDate>
      <description>too old</description>
    </item>
    <item>
      <title>Undated</title>
      <link>https://example.com/undated</link>
      <description>no pubdate at all</description>
    </item>
    <item>
      <title>No link</title>
      <description>dropped</description>
    </item>
  </channel>
</rss>`,
		now.Add(-2*time.Hour).Format(time.RFC1123Z),
		now.Add(-10*24*time.Hour).Format(time.RFC1123Z))
}

func TestFetchFiltersWindowAndDefaultsDates(t *testing.T) {
	t.Parallel()

	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssDocument(now)))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	entries, err := fetcher.Fetch(context.Background(), feed.Request{
		Source:      domain.Source{ID: "test", FeedURL: server.URL},
		WindowStart: now.Add(-5 * 24 * time.Hour),
	})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "Fresh article", entries[0].Title)
	require.NotNil(t, entries[0].Published)
	assert.Equal(t, "<p>Fresh body</p>", entries[0].Snippet)

	// Entries without a publication date count as "now" and pass the filter.
	assert.Equal(t, "Undated", entries[1].Title)
	assert.Nil(t, entries[1].Published)
}

func TestFetchPropagatesHTTPErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	_, err := fetcher.Fetch(context.Background(), feed.Request{
		Source:      domain.Source{ID: "test", FeedURL: server.URL},
		WindowStart: time.Now().Add(-24 * time.Hour),
	})
	assert.Error(t, err)
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	fetcher := NewFetcher(server.Client())
	_, err := fetcher.Fetch(ctx, feed.Request{
		Source:      domain.Source{ID: "test", FeedURL: server.URL},
		WindowStart: time.Now().Add(-24 * time.Hour),
	})
	assert.Error(t, err)
}
