package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsDigest/internal/api"
	"NewsDigest/internal/config"
	"NewsDigest/internal/feed"
	"NewsDigest/internal/infrastructure/draft"
	"NewsDigest/internal/infrastructure/rss"
	"NewsDigest/internal/infrastructure/scheduler"
	"NewsDigest/internal/infrastructure/storage"
	"NewsDigest/internal/infrastructure/telegram"
	"NewsDigest/internal/ingest"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	scheduler *usecase.Scheduler
	server    *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store, err := newStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("build snapshot store: %w", err)
	}

	registry := feed.NewRegistry()
	registry.Register(rss.NewFetcher(nil))

	aggregator := ingest.NewAggregator(ingest.AggregatorDeps{
		Registry:      registry,
		Keywords:      cfg.Ingest.Keywords,
		SummaryMaxLen: cfg.Ingest.SummaryMaxLen,
		FetchTimeout:  cfg.Ingest.FetchTimeout(),
		Logger:        baseLogger.With("component", "aggregator"),
	})

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	var draftClient ports.DraftClient
	if cfg.Draft.APIKey != "" {
		draftClient = draft.NewClient(cfg.Draft)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      aggregator,
		Store:       store,
		Notifier:    notifier,
		DraftClient: draftClient,
		Logger:      baseLogger.With("component", "pipeline"),
		Sources:     cfg.Sources,
		Window:      cfg.Ingest.Window(),
		MaxItems:    cfg.Ingest.MaxItems,
		Archive:     cfg.Store.ArchiveEnabled(),
	})

	app := &Application{
		cfg:       cfg,
		logger:    baseLogger,
		scheduler: usecase.NewScheduler(
			scheduler.NewIntervalScheduler(cfg.Scheduler.Every()),
			pipeline,
			cfg.Scheduler.Location()),
	}

	if cfg.Server.Addr != "" {
		app.server = &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      api.New(store, baseLogger.With("component", "api")),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}

	return app, nil
}

// Run starts the scheduler and the HTTP surface, then blocks until the
// context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serverErr := make(chan error, 1)
	if a.server != nil {
		go func() {
			a.logger.Info("server started", "addr", a.server.Addr)
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serverErr <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		_ = a.scheduler.Stop(context.Background())
		return fmt.Errorf("http server: %w", err)
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Error("scheduler stop", "error", err)
	}
	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown", "error", err)
		}
	}

	return nil
}

func newStore(cfg config.StoreConfig) (ports.SnapshotStore, error) {
	switch cfg.Kind {
	case "redis":
		return storage.NewRedisStore(cfg.RedisURL)
	case "", "file":
		return storage.NewFileStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}
