package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its description and
// middleware. It encapsulates all information needed to register and
// document a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Description string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available bot
// commands. It configures each command with appropriate handlers and
// middleware: /start and /stop manage the tracking gate and are admin
// gated; /stats and /reset require tracking to be active and the sender
// to be allowed; /group_reset additionally requires admin rights.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	adminMiddleware := []tgbot.Middleware{AdminOnly(deps)}
	userMiddleware := []tgbot.Middleware{TrackingActive(deps), AllowedOnly(deps)}
	groupAdminMiddleware := []tgbot.Middleware{TrackingActive(deps), AdminOnly(deps)}

	handlerMap := make(map[string]RegisteredHandler)

	handlerMap["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Description: "Start tracking filler words",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}
	handlerMap["/stop"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "stop",
		Description: "Stop tracking filler words",
		Handler:     NewStopHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}
	handlerMap["/help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Description: "Show available commands",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlerMap["/stats"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "stats",
		Description: "View your usage statistics",
		Handler:     NewStatsHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  userMiddleware,
	}
	handlerMap["/reset"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "reset",
		Description: "Reset your statistics in this chat",
		Handler:     NewResetHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  userMiddleware,
	}
	handlerMap["/group_reset"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "group_reset",
		Description: "Reset statistics for the whole chat (admin only)",
		Handler:     NewGroupResetHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  groupAdminMiddleware,
	}

	return handlerMap
}
