package tasks

import (
	"context"
	"fmt"
)

// newExchangeRetentionTask deletes exchanges older than the configured
// retention. A zero retention keeps everything.
func newExchangeRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", ExchangeRetention)

	return func(ctx context.Context) error {
		retention := deps.Config.Exchanges.Retention
		if retention <= 0 {
			log.DebugContext(ctx, "Exchange retention disabled, nothing to delete")
			return nil
		}

		cutoff := deps.Now().Add(-retention)
		deleted, err := deps.Store.DeleteExchangesBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("exchange retention failed: %w", err)
		}

		remaining, err := deps.Store.CountExchanges(ctx)
		if err != nil {
			return fmt.Errorf("exchange retention failed to count remaining exchanges: %w", err)
		}

		log.InfoContext(ctx, "Exchange retention completed", "cutoff", cutoff, "deleted", deleted, "remaining", remaining)
		return nil
	}
}
