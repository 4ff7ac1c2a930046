package ingest

import (
	"sort"

	"NewsDigest/internal/domain"
)

// SortItems orders items by score descending, then published_at descending
// (undated items last), then id ascending. The tertiary key makes the order
// total, so identical inputs always produce identical output order.
func SortItems(items []domain.DigestItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			// fall through to id
		case a.PublishedAt == nil:
			return false
		case b.PublishedAt == nil:
			return true
		case !a.PublishedAt.Equal(*b.PublishedAt):
			return a.PublishedAt.After(*b.PublishedAt)
		}
		return a.ID < b.ID
	})
}
