// Package main contains the entrypoint of the catalog tagging batch. It
// fetches source products, generates search tags with the configured
// completion backend and writes the catalog file read by the server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgard/commerce-agent/internal/completion"
	"github.com/edgard/commerce-agent/internal/config"
	"github.com/edgard/commerce-agent/internal/logger"
	"github.com/edgard/commerce-agent/internal/tagger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	output := flag.String("out", "", "Catalog file to write (defaults to catalog.path)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)

	client, err := completion.NewClient(ctx, cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize completion client", "backend", cfg.AI.Backend, "error", err)
		return 1
	}

	path := *output
	if path == "" {
		path = cfg.Catalog.Path
	}

	start := time.Now()
	t := tagger.New(client, cfg.Tagger.SourceURL, log,
		tagger.WithConcurrency(cfg.Tagger.Concurrency),
		tagger.WithHTTPClient(&http.Client{Timeout: cfg.Proxy.Timeout}),
	)
	n, err := t.Run(ctx, path)
	if err != nil {
		log.Error("Catalog tagging failed", "error", err)
		return 1
	}

	log.Info("Catalog tagging completed", "products", n, "path", path, "duration", time.Since(start))
	return 0
}
