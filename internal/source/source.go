// Package source defines the ingestion-adapter contract: each source turns
// a token definition into a batch of normalized articles.
package source

import (
	"context"
	"time"

	"MarketFeed/internal/config"
	"MarketFeed/internal/domain"
)

// Window bounds a fetch to a time span; Start comes from the newest
// persisted article, or the token's lookback when no history exists.
type Window struct {
	Start time.Time
	End   time.Time
}

// Source captures a single ingestion strategy (news search, RSS, etc.).
type Source interface {
	Name() string
	Fetch(ctx context.Context, token config.Token, window Window) ([]domain.Article, error)
}

// Registry keeps a mapping from source names to their implementations,
// preserving registration order for deterministic pipeline runs.
type Registry struct {
	sources map[string]Source
	order   []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	if _, exists := r.sources[src.Name()]; !exists {
		r.order = append(r.order, src.Name())
	}
	r.sources[src.Name()] = src
}

// All returns the registered sources in registration order.
func (r *Registry) All() []Source {
	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}
