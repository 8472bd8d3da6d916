// Package tasks implements the scheduled maintenance tasks of the exchange log.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/commerce-agent/internal/config"
	"github.com/edgard/commerce-agent/internal/database"
)

// Task names as used in the scheduler.tasks configuration section.
const (
	ExchangeRetention = "exchange_retention"
	SQLMaintenance    = "sql_maintenance"
)

// ScheduledTaskFunc is the signature of every scheduled task. The context
// must be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// TaskDeps contains the dependencies of scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// RegisterAllTasks returns all known tasks keyed by name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	tasks := map[string]ScheduledTaskFunc{
		ExchangeRetention: newExchangeRetentionTask(deps),
		SQLMaintenance:    newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
