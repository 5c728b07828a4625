package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"MarketFeed/internal/config"
	"MarketFeed/internal/domain"
	"MarketFeed/internal/ports"
	"MarketFeed/internal/relevance"
	"MarketFeed/internal/source"
)

// Report summarizes one pipeline run. Added is the delta between the
// persisted sizes before and after the run; it is approximate and can go
// negative when threshold changes age articles out.
type Report struct {
	Token     string
	Added     int
	Total     int
	NewTitles []string
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Sources  *source.Registry
	Store    ports.ArticleStore
	Notifier ports.Notifier
	Config   config.Config
	Logger   *slog.Logger
	Now      func() time.Time
}

// Pipeline implements the fetch-merge-score-filter workflow for one token.
type Pipeline struct {
	sources  *source.Registry
	store    ports.ArticleStore
	notifier ports.Notifier
	cfg      config.Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		sources:  deps.Sources,
		store:    deps.Store,
		notifier: deps.Notifier,
		cfg:      deps.Config,
		logger:   deps.Logger,
		now:      now,
	}
}

// Run executes one full cycle for the token: load history, fetch every
// registered source over the incremental window, merge, score, filter, and
// rewrite the persisted set.
func (p *Pipeline) Run(ctx context.Context, token config.Token) (Report, error) {
	if err := token.Validate(); err != nil {
		return Report{}, err
	}

	p.info("fetching and updating news", "token", token.Name, "symbol", token.Symbol)

	existing, err := p.store.Load(ctx, token.Symbol)
	if err != nil {
		return Report{}, fmt.Errorf("load history for %s: %w", token.Symbol, err)
	}

	window := p.fetchWindow(token, existing)

	batches := make([][]domain.Article, 0, len(p.sources.All()))
	for _, src := range p.sources.All() {
		batch, err := src.Fetch(ctx, token, window)
		if err != nil {
			return Report{}, fmt.Errorf("source %s for %s: %w", src.Name(), token.Symbol, err)
		}
		p.info("source produced articles", "source", src.Name(), "count", len(batch))
		batches = append(batches, batch)
	}

	merged := Merge(existing, batches...)

	keywords := append([]string{token.Name, token.Symbol}, token.MandatoryPhrases...)
	scored := relevance.Score(merged, keywords, token.AdditionalPhrases)

	filtered := FilterByThreshold(scored, p.cfg.Threshold(token))

	if err := p.store.Save(ctx, token.Symbol, filtered); err != nil {
		return Report{}, fmt.Errorf("save articles for %s: %w", token.Symbol, err)
	}

	report := Report{
		Token: token.Name,
		Added: len(filtered) - len(existing),
		Total: len(filtered),
	}
	for i := 0; i < report.Added && i < len(filtered); i++ {
		report.NewTitles = append(report.NewTitles, filtered[i].Title)
	}

	p.info("run complete", "token", token.Name, "added", report.Added, "total", report.Total)
	for _, title := range report.NewTitles {
		p.info("new article", "token", token.Name, "title", title)
	}

	p.notify(ctx, report)

	return report, nil
}

// fetchWindow starts at the newest persisted timestamp, or falls back to
// the token's lookback span on first run.
func (p *Pipeline) fetchWindow(token config.Token, existing []domain.Article) source.Window {
	end := p.now().UTC()

	if len(existing) == 0 {
		return source.Window{Start: end.Add(-token.Lookback()), End: end}
	}

	var newest int64
	for _, article := range existing {
		if article.Timestamp > newest {
			newest = article.Timestamp
		}
	}
	return source.Window{Start: time.Unix(newest, 0).UTC(), End: end}
}

func (p *Pipeline) notify(ctx context.Context, report Report) {
	if p.notifier == nil || report.Added == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: added %d relevant articles, %d total", report.Token, report.Added, report.Total)
	for _, title := range report.NewTitles {
		fmt.Fprintf(&b, "\n- %s", title)
	}

	if err := p.notifier.PublishSummary(ctx, b.String()); err != nil {
		p.info("publish summary failed", "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
