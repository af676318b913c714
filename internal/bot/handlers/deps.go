package handlers

import (
	"log/slog"

	"fillerbot/internal/chatstate"
	"fillerbot/internal/config"
	"fillerbot/internal/database"
	"fillerbot/internal/tracker"
)

// HandlerDeps provides dependencies for Telegram command and message handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Tracker   *tracker.Tracker
	ChatState *chatstate.Manager
}
