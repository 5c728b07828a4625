package ports

import (
	"context"
	"errors"
	"time"

	"MarketFeed/internal/domain"
)

// ErrTokenNotFound signals that no queried RPC could resolve the token.
var ErrTokenNotFound = errors.New("token not found on chain")

// ArticleStore persists one ordered article set per token symbol. Load
// treats missing or malformed state as "no history".
type ArticleStore interface {
	Load(ctx context.Context, symbol string) ([]domain.Article, error)
	Save(ctx context.Context, symbol string, articles []domain.Article) error
}

// Notifier publishes per-run summaries to operators.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}

// RPCDirectory exposes RPC endpoints per chain.
type RPCDirectory interface {
	RPCURLs(chainID int) []string
}

// TokenResolver looks up on-chain token metadata.
type TokenResolver interface {
	Resolve(ctx context.Context, address string, chainID int) (name, symbol string, err error)
}

// Scheduler controls when pipeline runs execute. Jobs registered under the
// same name run serially; the scheduler owns all timers so that the core
// pipeline never does.
type Scheduler interface {
	Schedule(name string, interval time.Duration, job func(context.Context))
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
