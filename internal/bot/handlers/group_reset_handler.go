package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewGroupResetHandler returns a handler for the /group_reset command. It
// deletes all usage events for the chat, across every user.
func NewGroupResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return groupResetHandler{deps}.Handle
}

type groupResetHandler struct {
	deps HandlerDeps
}

func (h groupResetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "group_reset")

	if update.Message == nil || update.Message.From == nil {
		log.ErrorContext(ctx, "Group reset handler called with nil Message or From", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	timeoutCtx, cancel := context.WithTimeout(ctx, resetTimeout)
	defer cancel()

	deleted, err := h.deps.Store.DeleteChatStats(timeoutCtx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to reset chat stats", "error", err, "chat_id", chatID)
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Messages.GeneralError,
		}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send error message", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	log.InfoContext(ctx, "Chat stats reset",
		"chat_id", chatID, "user_id", update.Message.From.ID, "deleted", deleted)

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   h.deps.Config.Messages.GroupResetConfirm,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send group reset confirmation message", "error", err, "chat_id", chatID)
	}
}
