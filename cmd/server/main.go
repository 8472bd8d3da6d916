// Package main contains the entrypoint of the commerce agent API server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/commerce-agent/internal/api"
	"github.com/edgard/commerce-agent/internal/app"
	"github.com/edgard/commerce-agent/internal/catalog"
	"github.com/edgard/commerce-agent/internal/chat"
	"github.com/edgard/commerce-agent/internal/completion"
	"github.com/edgard/commerce-agent/internal/config"
	"github.com/edgard/commerce-agent/internal/database"
	"github.com/edgard/commerce-agent/internal/logger"
	"github.com/edgard/commerce-agent/internal/scheduler"
	"github.com/edgard/commerce-agent/internal/tasks"
	"github.com/edgard/commerce-agent/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	products := catalog.Load(cfg.Catalog.Path, log)
	log.Info("Catalog loaded", "path", cfg.Catalog.Path, "products", products.Len())

	client, err := completion.NewClient(ctx, cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize completion client", "backend", cfg.AI.Backend, "error", err)
		return 1
	}

	orchestrator := chat.NewOrchestrator(client, products, log)

	var (
		recorder chat.Recorder = chat.NopRecorder{}
		sched    app.Scheduler
	)
	if cfg.Database.Enabled {
		db, err := database.NewDB(cfg.Database.Path)
		if err != nil {
			log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)

		store := database.NewStore(db, log)
		stored, err := database.Verify(ctx, store)
		if err != nil {
			log.Error("Database is not usable", "path", cfg.Database.Path, "error", err)
			return 1
		}
		log.Info("Exchange log opened", "path", cfg.Database.Path, "exchanges", stored)
		recorder = chat.NewStoreRecorder(store, log)

		taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store, Config: cfg})
		s, err := scheduler.NewScheduler(log, &cfg.Scheduler, taskMap)
		if err != nil {
			log.Error("Failed to create scheduler", "error", err)
			return 1
		}
		sched = s
	}

	server, err := api.NewServer(api.Deps{
		Processor: orchestrator,
		Recorder:  recorder,
		Logger:    log,
		Server:    cfg.Server,
		Proxy:     cfg.Proxy,
	})
	if err != nil {
		log.Error("Failed to create HTTP server", "error", err)
		return 1
	}

	var listener app.Listener
	if cfg.Telegram.Enabled {
		hDeps := telegram.HandlerDeps{
			Logger:    log,
			Messages:  cfg.Messages,
			Processor: orchestrator,
			Recorder:  recorder,
		}
		tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log,
			tgbot.WithMiddlewares(logger.TelegramMiddleware(log)),
			tgbot.WithDefaultHandler(telegram.NewDefaultHandler(hDeps)),
		)
		if err != nil {
			log.Error("Failed to create Telegram bot", "error", err)
			return 1
		}
		if err := telegram.RegisterHandlers(tg, log, telegram.RegisterAllCommands(hDeps)); err != nil {
			log.Error("Failed to register Telegram handlers", "error", err)
			return 1
		}
		listener = tg
	}

	runErr := app.New(log, server, listener, sched).Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Server stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Server stopped gracefully")
	return 0
}
