package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask checks the database is reachable and compacts it.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled SQL maintenance task...")
		startTime := time.Now()

		if err := deps.Store.Ping(ctx); err != nil {
			log.ErrorContext(ctx, "Database unreachable, skipping maintenance", "error", err)
			return fmt.Errorf("sql maintenance ping failed: %w", err)
		}

		err := deps.Store.RunSQLMaintenance(ctx)
		duration := time.Since(startTime)
		if err != nil {
			log.ErrorContext(ctx, "SQL maintenance task failed", "error", err, "duration", duration)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled SQL maintenance task completed successfully", "duration", duration)
		return nil
	}
}
