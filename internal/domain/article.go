package domain

import "time"

// Search results and default feeds are tagged independent-news;
// token-specific feeds carry the tag from configuration.
const TagIndependentNews = "independent-news"

// UTCTimeLayout renders the denormalized utc_time field.
const UTCTimeLayout = "2006-01-02 15:04:05 UTC"

// Article is the canonical record persisted per token. Relevance stays nil
// until the scorer has seen the article; token-specific feeds preset it.
type Article struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Snippet     string   `json:"snippet"`
	Source      string   `json:"source"`
	Timestamp   int64    `json:"timestamp"`
	UTCTime     string   `json:"utc_time"`
	Tag         string   `json:"tag,omitempty"`
	FullContent string   `json:"full_content,omitempty"`
	Relevance   *float64 `json:"relevance,omitempty"`
}

// Key identifies an article for deduplication. Providers supply no stable
// ID, so the (source, link, title) triple stands in for one.
type Key struct {
	Source string
	Link   string
	Title  string
}

// Key returns the dedup identity of the article.
func (a Article) Key() Key {
	return Key{Source: a.Source, Link: a.Link, Title: a.Title}
}

// Scored reports whether a relevance value has been assigned.
func (a Article) Scored() bool {
	return a.Relevance != nil
}

// SetRelevance assigns a relevance score.
func (a *Article) SetRelevance(v float64) {
	a.Relevance = &v
}

// RelevanceOrZero returns the assigned relevance, or 0 when unscored.
func (a Article) RelevanceOrZero() float64 {
	if a.Relevance == nil {
		return 0
	}
	return *a.Relevance
}

// StampUTC sets the timestamp and the derived utc_time display field.
func (a *Article) StampUTC(t time.Time) {
	a.Timestamp = t.UTC().Unix()
	a.UTCTime = t.UTC().Format(UTCTimeLayout)
}

// UTCTimeFromUnix formats an epoch-seconds timestamp for display.
func UTCTimeFromUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(UTCTimeLayout)
}
