// Package tasks implements the bot's scheduled maintenance tasks and their
// registration.
package tasks

import (
	"context"
	"log/slog"
)

// Maintainer is the storage housekeeping the tasks need. database.Store
// satisfies it.
type Maintainer interface {
	Ping(ctx context.Context) error
	RunSQLMaintenance(ctx context.Context) error
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  Maintainer
}
