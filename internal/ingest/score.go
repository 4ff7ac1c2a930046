package ingest

import (
	"math"
	"strings"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/feed"
)

// Recency thresholds of the additive point system.
const (
	freshBoost  = 20
	recentBoost = 10
)

// Score computes the relevance score of one entry. It is a pure function of
// the entry, the source weight, and the keyword table: no I/O, no clock other
// than the supplied now.
//
// Points: +20 if the entry is younger than 24h, +10 if younger than 48h,
// +round(weight*10), plus the configured points for every keyword that occurs
// (case-insensitive substring) in title+snippet. All distinct keyword matches
// accumulate. Entries without a publication date count as published now.
func Score(entry feed.Entry, source domain.Source, keywords map[string]int, now time.Time) int {
	published := now
	if entry.Published != nil {
		published = *entry.Published
	}

	score := 0.0
	switch age := now.Sub(published); {
	case age < 24*time.Hour:
		score += freshBoost
	case age < 48*time.Hour:
		score += recentBoost
	}

	score += math.Round(source.Weight * 10)

	haystack := strings.ToLower(entry.Title + " " + PlainText(entry.Snippet))
	for keyword, points := range keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			score += float64(points)
		}
	}

	return int(math.Round(score))
}
