// Package storage persists one pretty-printed JSON article file per token.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"MarketFeed/internal/domain"
	"MarketFeed/internal/ports"
)

// JSONStore keeps each token's article set in <dir>/<symbol>_news.json.
// The file is rewritten in full on every save; there is no append path.
type JSONStore struct {
	dir    string
	logger *slog.Logger
}

var _ ports.ArticleStore = (*JSONStore)(nil)

// NewJSONStore ensures the output directory exists.
func NewJSONStore(dir string, log *slog.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &JSONStore{dir: dir, logger: log}, nil
}

// Path returns the persisted file location for a token symbol.
func (s *JSONStore) Path(symbol string) string {
	return filepath.Join(s.dir, strings.ToLower(symbol)+"_news.json")
}

// Load reads the persisted article set. A missing file is no history; a
// malformed file is logged and likewise treated as no history rather than
// aborting the run.
func (s *JSONStore) Load(_ context.Context, symbol string) ([]domain.Article, error) {
	raw, err := os.ReadFile(s.Path(symbol))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.Path(symbol), err)
	}

	var articles []domain.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		if s.logger != nil {
			s.logger.Warn("persisted file malformed, treating as empty", "file", s.Path(symbol), "error", err)
		}
		return nil, nil
	}
	return articles, nil
}

// Save rewrites the full article set for the token.
func (s *JSONStore) Save(_ context.Context, symbol string, articles []domain.Article) error {
	if articles == nil {
		articles = []domain.Article{}
	}

	raw, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal articles: %w", err)
	}

	if err := os.WriteFile(s.Path(symbol), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.Path(symbol), err)
	}
	return nil
}
