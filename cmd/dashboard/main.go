// dashboard is the terminal ticket dashboard. It drives one table engine
// directly against the configured record store.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/table"
	"github.com/spec-kit/ticket-dashboard/internal/tui"
	"github.com/spec-kit/ticket-dashboard/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		pageSize   int
		logFile    string
	)
	flagSet := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file")
	flagSet.IntVar(&pageSize, "page-size", 0, "rows per page (5, 10, 15 or 20)")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON log records to this file")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	if configPath != "" {
		if err := os.Setenv("DASHBOARD_CONFIG_PATH", configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if pageSize != 0 {
		cfg.Table.DefaultPageSize = pageSize
	}

	// The terminal belongs to the dashboard, so logs go to a file or nowhere.
	switch {
	case logFile != "":
		cfg.Logger.OutputPath = logFile
	case cfg.Logger.OutputPath == "stdout", cfg.Logger.OutputPath == "stderr", cfg.Logger.OutputPath == "":
		cfg.Logger.OutputPath = observability.OutputDiscard
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := persistence.OpenStores(ctx, *cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer stores.Close()

	locale, err := language.Parse(cfg.Table.Locale)
	if err != nil {
		logger.Warn("invalid table locale; using und", zap.String("locale", cfg.Table.Locale), zap.Error(err))
		locale = language.Und
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartActivityWorker(ctx, service.NewActivityService(dispatcher, logger, cfg.Notification))

	sessionID := uuid.NewString()
	inbox := &session.Inbox{}
	engine := table.NewEngine(table.Dependencies{
		Tickets:         stores.Tickets,
		Notifier:        inbox,
		Dispatcher:      dispatcher,
		Logger:          logger.With(zap.String("session_id", sessionID)),
		Locale:          locale,
		Clipboard:       tui.SystemClipboard{},
		DefaultPageSize: cfg.Table.DefaultPageSize,
		SessionID:       sessionID,
	})

	model := tui.NewModel(ctx, tui.Config{
		Engine:  engine,
		Inbox:   inbox,
		Lists:   service.NewListService(stores.Lists, logger),
		Scripts: service.NewScriptService(stores.Scripts, logger),
	})
	logger.Info("dashboard started", zap.String("driver", stores.Driver), zap.String("session_id", sessionID))

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
