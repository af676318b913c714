package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStopHandler returns a handler for the /stop command. It disables
// filler word tracking for the chat; recorded statistics are kept.
func NewStopHandler(deps HandlerDeps) bot.HandlerFunc {
	return stopHandler{deps}.Handle
}

type stopHandler struct {
	deps HandlerDeps
}

func (h stopHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stop")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Stop handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	h.deps.ChatState.SetActive(chatID, false)
	log.InfoContext(ctx, "Tracking deactivated", "chat_id", chatID, "user_id", update.Message.From.ID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   h.deps.Config.Messages.Stop,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send stop message", "error", err, "chat_id", chatID)
	}
}
