package usecase

import (
	"sort"

	"MarketFeed/internal/domain"
)

// Merge combines the persisted baseline with freshly fetched batches,
// deduplicates by identity key keeping the copy with the larger timestamp
// (a re-fetch may carry an updated snippet for the same story), and sorts
// descending by timestamp. The result replaces the prior persisted set.
func Merge(existing []domain.Article, batches ...[]domain.Article) []domain.Article {
	index := map[domain.Key]int{}
	merged := make([]domain.Article, 0, len(existing))

	add := func(article domain.Article) {
		key := article.Key()
		if i, seen := index[key]; seen {
			if article.Timestamp > merged[i].Timestamp {
				merged[i] = article
			}
			return
		}
		index[key] = len(merged)
		merged = append(merged, article)
	}

	for _, article := range existing {
		add(article)
	}
	for _, batch := range batches {
		for _, article := range batch {
			add(article)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})

	return merged
}

// FilterByThreshold drops articles scoring below the effective relevance
// threshold. Unscored articles count as zero. Filtering runs last, after
// merge and scoring.
func FilterByThreshold(articles []domain.Article, threshold float64) []domain.Article {
	kept := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if article.RelevanceOrZero() >= threshold {
			kept = append(kept, article)
		}
	}
	return kept
}
