// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that checks the sender against the
// configured admin username list. An empty admin list lets everyone
// through. Unauthorized senders get a rejection message and processing
// stops.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, bot, update)
				return
			}

			if !deps.Config.Telegram.IsAdmin(update.Message.From.Username) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "AdminOnly")
				log.WarnContext(ctx, "Unauthorized admin command attempt",
					"user_id", update.Message.From.ID, "username", update.Message.From.Username, "chat_id", chatID)

				_, err := bot.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.UnauthorizedAdmin,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}

// AllowedOnly creates a middleware that checks the sender against the
// configured allowed username list. An empty allowed list lets everyone
// through.
func AllowedOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, bot, update)
				return
			}

			if !deps.Config.Telegram.IsAllowed(update.Message.From.Username) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "AllowedOnly")
				log.WarnContext(ctx, "Unauthorized user attempt",
					"user_id", update.Message.From.ID, "username", update.Message.From.Username, "chat_id", chatID)

				_, err := bot.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.UnauthorizedUser,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}

// TrackingActive creates a middleware that only lets a command through
// when tracking is enabled for the chat.
func TrackingActive(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, bot, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !deps.ChatState.IsActive(chatID) {
				log := deps.Logger.With("middleware", "TrackingActive")
				log.DebugContext(ctx, "Command received while tracking inactive", "chat_id", chatID)

				_, err := bot.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.NotActive,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send not-active message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}
