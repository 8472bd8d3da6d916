// Package app runs the long-lived components of the service under a shared
// lifecycle: the HTTP API, the optional Telegram listener and the scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ErrListenerStopped is returned when the Telegram listener exits while the
// application is still running.
var ErrListenerStopped = errors.New("telegram listener stopped unexpectedly")

// HTTPServer serves until its context is cancelled.
type HTTPServer interface {
	Run(ctx context.Context) error
}

// Listener receives chat updates until its context is cancelled.
type Listener interface {
	Start(ctx context.Context)
}

// Scheduler runs background tasks between Start and Stop.
type Scheduler interface {
	Start(ctx context.Context) (int, error)
	Stop() error
}

// App owns the running components. Listener and Scheduler are optional.
type App struct {
	logger    *slog.Logger
	server    HTTPServer
	listener  Listener
	scheduler Scheduler
}

// New creates an App. listener and scheduler may be nil.
func New(logger *slog.Logger, server HTTPServer, listener Listener, scheduler Scheduler) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		logger:    logger.With("component", "app"),
		server:    server,
		listener:  listener,
		scheduler: scheduler,
	}
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails, in which case the others are stopped too.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting application")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Run(gCtx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.listener != nil {
		g.Go(func() error {
			a.logger.Info("Starting Telegram listener")
			a.listener.Start(gCtx)
			a.logger.Info("Telegram listener stopped")

			if gCtx.Err() == nil {
				return ErrListenerStopped
			}
			return nil
		})
	}

	if a.scheduler != nil {
		g.Go(func() error {
			if _, err := a.scheduler.Start(gCtx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			a.logger.Info("Shutdown signal received, stopping scheduler")
			if err := a.scheduler.Stop(); err != nil {
				a.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Application stopped due to error", "error", err)
		return err
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
