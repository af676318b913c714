package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewMessageHandler returns the default handler, invoked for every update
// no other handler claims. It scans plain text messages for filler words
// when tracking is active in the chat and the sender is allowed, records
// each occurrence, and replies with a notification naming the detected
// words.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.Text == "" || msg.From == nil {
		return
	}

	// Commands are dispatched to their own handlers.
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID

	if !h.deps.ChatState.IsActive(chatID) {
		log.DebugContext(ctx, "Tracking inactive, ignoring message", "chat_id", chatID)
		return
	}

	if !h.deps.Config.Telegram.IsAllowed(msg.From.Username) {
		log.DebugContext(ctx, "Message from unauthorized user ignored",
			"chat_id", chatID, "user_id", userID, "username", msg.From.Username)
		return
	}

	matches, err := h.deps.Tracker.ProcessMessage(ctx, userID, chatID, msg.Text, time.Unix(int64(msg.Date), 0))
	if err != nil {
		// Matches were detected but not all were persisted; notify anyway
		// and let stats lag behind rather than going silent.
		log.ErrorContext(ctx, "Failed to persist detected filler words",
			"error", err, "chat_id", chatID, "user_id", userID)
	}
	if len(matches) == 0 {
		return
	}

	notification := fmt.Sprintf(h.deps.Config.Messages.Detected, formatMatches(matches))

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            notification,
		ParseMode:       models.ParseModeMarkdown,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send filler word notification", "error", err, "chat_id", chatID)
	}
}

// formatMatches renders the distinct matched words, in detection order,
// as a bolded comma-separated list.
func formatMatches(matches []string) string {
	seen := make(map[string]struct{}, len(matches))
	parts := make([]string, 0, len(matches))
	for _, w := range matches {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		parts = append(parts, "*"+w+"*")
	}
	return strings.Join(parts, ", ")
}
