package ingest

import (
	"crypto/sha256"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/feed"
)

// TruncationMarker is appended to summary hints cut at the length cap.
const TruncationMarker = "…"

var stripPolicy = bluemonday.StrictPolicy()

// ItemID derives the stable content-address of an entry from its URL.
// The same URL always yields the same id, across runs and processes.
func ItemID(url string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(url)))
	return fmt.Sprintf("%x", sum[:8])
}

// PlainText strips markup from a feed snippet and collapses whitespace.
func PlainText(snippet string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(snippet))
	return strings.Join(strings.Fields(text), " ")
}

// Normalizer converts raw feed entries into canonical digest items.
type Normalizer struct {
	summaryMaxLen int
}

// NewNormalizer builds a normalizer with the given summary length cap.
func NewNormalizer(summaryMaxLen int) *Normalizer {
	return &Normalizer{summaryMaxLen: summaryMaxLen}
}

// Item canonicalizes one entry from its source. Status starts as new; the
// status merge step is the only place that moves it.
func (n *Normalizer) Item(entry feed.Entry, source domain.Source) domain.DigestItem {
	image := entry.Image
	if image == "" {
		image = firstImage(entry.Snippet)
	}

	return domain.DigestItem{
		ID:          ItemID(entry.Link),
		Title:       strings.TrimSpace(entry.Title),
		URL:         strings.TrimSpace(entry.Link),
		SourceID:    source.ID,
		SourceName:  source.Name,
		PublishedAt: entry.Published,
		Topics:      []string{source.Topic},
		Tags:        []string{},
		SummaryHint: n.summaryHint(entry.Snippet),
		Status:      domain.StatusNew,
		Image:       image,
	}
}

func (n *Normalizer) summaryHint(snippet string) string {
	text := PlainText(snippet)
	runes := []rune(text)
	if n.summaryMaxLen <= 0 || len(runes) <= n.summaryMaxLen {
		return text
	}
	return string(runes[:n.summaryMaxLen]) + TruncationMarker
}

// firstImage extracts the src of the first <img> in the entry content, if any.
func firstImage(snippet string) string {
	if !strings.Contains(snippet, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}
