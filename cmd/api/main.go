package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	httptransport "github.com/spec-kit/ticket-dashboard/internal/api/http"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/table"
	"github.com/spec-kit/ticket-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := persistence.OpenStores(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer stores.Close()

	cache, err := persistence.OpenSessionCache(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to configure session cache", zap.Error(err))
	}
	defer cache.Close() //nolint:errcheck

	locale, err := language.Parse(cfg.Table.Locale)
	if err != nil {
		logger.Warn("invalid table locale; using und", zap.String("locale", cfg.Table.Locale), zap.Error(err))
		locale = language.Und
	}

	dispatcher := events.NewInMemoryDispatcher()
	activityService := service.NewActivityService(dispatcher, logger, cfg.Notification)
	worker.StartActivityWorker(ctx, activityService)

	sessions := session.NewManager(session.ManagerConfig{
		NewEngine: func(sessionID string, notifier table.Notifier) *table.Engine {
			return table.NewEngine(table.Dependencies{
				Tickets:         stores.Tickets,
				Notifier:        notifier,
				Dispatcher:      dispatcher,
				Logger:          logger.With(zap.String("session_id", sessionID)),
				Locale:          locale,
				DefaultPageSize: cfg.Table.DefaultPageSize,
				SessionID:       sessionID,
			})
		},
		Settings: session.NewRedisSettingsStore(cache, cfg.Redis.KeyPrefix, cfg.Session.TTL()),
		TTL:      cfg.Session.TTL(),
		Logger:   logger,
	})
	tokens := session.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.TTL())
	go worker.RunSessionSweeper(ctx, sessions, cfg.Session.SweepInterval(), logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.DependencyCheck{Name: stores.Driver, Ping: stores.Ping},
			handlers.DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error { return cache.Ping(ctx).Err() }},
		),
		Metrics:           handlers.NewMetricsHandler(metrics),
		Sessions:          handlers.NewSessionHandler(sessions, tokens),
		Tickets:           handlers.NewTicketsHandler(stores.Tickets),
		Lists:             handlers.NewListsHandler(service.NewListService(stores.Lists, logger)),
		Scripts:           handlers.NewScriptsHandler(service.NewScriptService(stores.Scripts, logger)),
		Stats:             handlers.NewStatsHandler(),
		SessionMiddleware: session.NewMiddleware(tokens, sessions),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
