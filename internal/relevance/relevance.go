// Package relevance scores articles 0-10 from keyword density, lexical
// diversity, and same-day article-volume clustering.
package relevance

import (
	"math"
	"strings"
	"time"
	"unicode"

	"MarketFeed/internal/domain"
)

const (
	keywordWeight = 10.0
	maxRelevance  = 10.0
	dateVolumeCap = 5.0
	titleWeight   = 3.0
	snippetWeight = 2.0
	bodyWeight    = 1.0
)

// TextScore computes the weighted occurrence score for a text blob:
// keyword hits count tenfold against additional phrases, and the sum is
// boosted by the unique-word ratio of the stopword-free token stream.
func TextScore(text string, keywords, additionalPhrases []string) float64 {
	lowered := strings.ToLower(text)

	keywordCount := 0
	for _, keyword := range keywords {
		keywordCount += strings.Count(lowered, strings.ToLower(keyword))
	}

	phraseCount := 0
	for _, phrase := range additionalPhrases {
		phraseCount += strings.Count(lowered, strings.ToLower(phrase))
	}

	base := float64(keywordCount)*keywordWeight + float64(phraseCount)
	return base * (1 + uniqueRatio(lowered))
}

func uniqueRatio(lowered string) float64 {
	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	unique := map[string]struct{}{}
	total := 0
	for _, token := range tokens {
		if isStopword(token) {
			continue
		}
		total++
		unique[token] = struct{}{}
	}

	if total == 0 {
		return 0
	}
	return float64(len(unique)) / float64(total)
}

// contentScore blends title, snippet and (when present) full-body scores
// with fixed weights. Title counts double weight relative to the snippet
// when no body is available.
func contentScore(article domain.Article, keywords, additionalPhrases []string) float64 {
	title := TextScore(article.Title, keywords, additionalPhrases)
	snippet := TextScore(article.Snippet, keywords, additionalPhrases)

	if article.FullContent != "" {
		body := TextScore(article.FullContent, keywords, additionalPhrases)
		return (title*titleWeight + snippet*snippetWeight + body*bodyWeight) /
			(titleWeight + snippetWeight + bodyWeight)
	}

	return (title*2 + snippet) / 3
}

// dateVolumes counts articles per UTC calendar date, capped per date.
func dateVolumes(articles []domain.Article) map[string]float64 {
	counts := map[string]float64{}
	for _, article := range articles {
		counts[calendarDate(article.Timestamp)]++
	}
	for date, count := range counts {
		counts[date] = math.Min(count, dateVolumeCap)
	}
	return counts
}

func calendarDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

// Score assigns a relevance value to every unscored article in the batch.
// Articles that already carry a relevance (token-specific feed origin) are
// returned untouched; date clustering is still computed over the whole
// batch.
func Score(articles []domain.Article, keywords, additionalPhrases []string) []domain.Article {
	volumes := dateVolumes(articles)

	scored := make([]domain.Article, len(articles))
	for i, article := range articles {
		if article.Scored() {
			scored[i] = article
			continue
		}

		total := contentScore(article, keywords, additionalPhrases) +
			volumes[calendarDate(article.Timestamp)]
		article.SetRelevance(round2(math.Min(total, maxRelevance)))
		scored[i] = article
	}
	return scored
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
