package serpnews

import (
	"context"
	"log/slog"

	"MarketFeed/internal/config"
	"MarketFeed/internal/domain"
	"MarketFeed/internal/source"
)

// Source implements source.Source by expanding the token into the query
// set and flattening all paginated results into one batch. Duplicate
// stories reached via different queries are handled downstream by the
// merge engine, not here.
type Source struct {
	client *Client
	logger *slog.Logger
}

var _ source.Source = (*Source)(nil)

// NewSource wraps a search client as an ingestion source.
func NewSource(client *Client, log *slog.Logger) *Source {
	return &Source{client: client, logger: log}
}

// Name identifies the source inside the registry.
func (s *Source) Name() string {
	return "serpapi-news"
}

// Fetch runs every generated query over the window and concatenates the
// results.
func (s *Source) Fetch(ctx context.Context, token config.Token, window source.Window) ([]domain.Article, error) {
	var all []domain.Article
	for _, query := range source.Queries(token) {
		articles, err := s.client.Search(ctx, query, window)
		if err != nil {
			return nil, err
		}
		all = append(all, articles...)
	}
	return all, nil
}
