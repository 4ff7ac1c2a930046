package ingest

import "NewsDigest/internal/domain"

// MergeStatuses reconciles a freshly computed item list against the previous
// snapshot's items so that human curation survives re-ingestion. For every
// fresh item whose id existed before with a status other than new, the
// previous status and notes are copied forward; every other field (score,
// summary, published date) stays refreshed from the new fetch. Items present
// only in previous are not carried forward: whatever ages out of the window
// drops, curated or not.
func MergeStatuses(fresh, previous []domain.DigestItem) []domain.DigestItem {
	prior := make(map[string]domain.DigestItem, len(previous))
	for _, item := range previous {
		prior[item.ID] = item
	}

	merged := make([]domain.DigestItem, 0, len(fresh))
	for _, item := range fresh {
		if prev, ok := prior[item.ID]; ok && prev.Status != domain.StatusNew {
			item.Status = prev.Status
			item.Notes = prev.Notes
		}
		merged = append(merged, item)
	}
	return merged
}

// Cap truncates the tail of an already sorted item list to at most max items.
func Cap(items []domain.DigestItem, max int) []domain.DigestItem {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}
