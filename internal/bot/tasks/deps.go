// Package tasks implements scheduled maintenance tasks for the filler
// words bot.
package tasks

import (
	"log/slog"

	"fillerbot/internal/config"
	"fillerbot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
