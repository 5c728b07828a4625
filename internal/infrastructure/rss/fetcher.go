// Package rss ingests configured RSS feeds via gofeed. A feed that fails
// to parse yields zero entries, never an error.
package rss

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"MarketFeed/internal/config"
	"MarketFeed/internal/content"
	"MarketFeed/internal/domain"
	"MarketFeed/internal/source"
)

const tokenFeedRelevance = 10.0

// Fetcher implements source.Source over the global default feeds plus the
// token's own feeds. Articles from token-specific feeds arrive pre-scored
// at the maximum relevance and are never rescored.
type Fetcher struct {
	parser       *gofeed.Parser
	defaultFeeds []string
	logger       *slog.Logger
	now          func() time.Time
}

var _ source.Source = (*Fetcher)(nil)

// NewFetcher builds the RSS ingestion source.
func NewFetcher(defaultFeeds []string, log *slog.Logger) *Fetcher {
	return &Fetcher{
		parser:       gofeed.NewParser(),
		defaultFeeds: defaultFeeds,
		logger:       log,
		now:          time.Now,
	}
}

// Name identifies the source inside the registry.
func (f *Fetcher) Name() string {
	return "rss"
}

// Fetch pulls the default feeds and then the token-specific ones.
func (f *Fetcher) Fetch(ctx context.Context, token config.Token, _ source.Window) ([]domain.Article, error) {
	var all []domain.Article

	for _, feedURL := range f.defaultFeeds {
		all = append(all, f.fetchFeed(ctx, feedURL, domain.TagIndependentNews, false)...)
	}

	for _, feed := range token.RSSFeeds {
		all = append(all, f.fetchFeed(ctx, feed.URL, feed.Tag, true)...)
	}

	return all, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feedURL, tag string, tokenSpecific bool) []domain.Article {
	f.debug("fetching rss feed", "url", feedURL)

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		f.warn("rss feed failed, skipping", "url", feedURL, "error", err)
		return nil
	}

	sourceName := feed.Title
	if sourceName == "" {
		sourceName = "Unknown"
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, f.toArticle(item, sourceName, tag, tokenSpecific))
	}
	return articles
}

func (f *Fetcher) toArticle(item *gofeed.Item, sourceName, tag string, tokenSpecific bool) domain.Article {
	published := f.now().UTC()
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	article := domain.Article{
		Title:   item.Title,
		Link:    item.Link,
		Snippet: item.Description,
		Source:  sourceName,
		Tag:     tag,
	}
	article.StampUTC(published)

	if tokenSpecific {
		article.SetRelevance(tokenFeedRelevance)
	}

	return content.Clean(article)
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
