package app

import (
	"context"
	"fmt"
	"log/slog"

	"MarketFeed/internal/config"
	"MarketFeed/internal/infrastructure/rss"
	"MarketFeed/internal/infrastructure/scheduler"
	"MarketFeed/internal/infrastructure/serpnews"
	"MarketFeed/internal/infrastructure/storage"
	"MarketFeed/internal/infrastructure/telegram"
	"MarketFeed/internal/logging"
	"MarketFeed/internal/ports"
	"MarketFeed/internal/source"
	"MarketFeed/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler ports.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.NewJSONStore(cfg.OutputDirectory, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	registry := source.NewRegistry()
	newsClient := serpnews.NewClient(cfg.SerpAPI, nil, baseLogger.With("component", "serpnews"))
	registry.Register(serpnews.NewSource(newsClient, baseLogger.With("component", "source.news")))
	registry.Register(rss.NewFetcher(cfg.DefaultRSSFeeds, baseLogger.With("component", "source.rss")))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Sources:  registry,
		Store:    store,
		Notifier: notifier,
		Config:   cfg,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		pipeline:  pipeline,
		scheduler: scheduler.NewIntervalScheduler(baseLogger.With("component", "scheduler")),
	}, nil
}

// Run schedules every valid token and blocks until the context ends.
func (a *Application) Run(ctx context.Context) error {
	scheduled := 0
	for _, token := range a.cfg.Tokens {
		token := token
		if err := token.Validate(); err != nil {
			a.logger.Error("skipping token", "error", err)
			continue
		}

		a.scheduler.Schedule(token.Symbol, token.Interval(a.cfg.DefaultFetchInterval), func(jobCtx context.Context) {
			if _, err := a.pipeline.Run(jobCtx, token); err != nil {
				a.logger.Error("pipeline run failed", "token", token.Name, "error", err)
			}
		})
		scheduled++
	}

	if scheduled == 0 {
		return fmt.Errorf("no valid tokens configured")
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}
