package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"fillerbot/internal/config"
	"fillerbot/internal/database"
)

// NewStatsHandler returns a handler for the /stats command. It reports the
// caller's filler word usage in this chat over the three reporting windows.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Stats handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	stats, err := h.deps.Tracker.Stats(ctx, userID, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to query usage stats", "error", err, "chat_id", chatID, "user_id", userID)
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Messages.GeneralError,
		}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send error message", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      formatStats(&h.deps.Config.Messages, h.deps.Config.Tracker.StatsTopWords, stats),
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send stats message", "error", err, "chat_id", chatID)
		return
	}

	log.InfoContext(ctx, "Stats requested", "chat_id", chatID, "user_id", userID)
}

// formatStats renders the three reporting windows as a Markdown message,
// showing the total and the top N words per window.
func formatStats(msgs *config.MessagesConfig, topWords int, stats *database.UserStats) string {
	var sb strings.Builder
	sb.WriteString(msgs.StatsHeader)

	writeWindow(&sb, msgs, topWords, msgs.StatsToday, stats.Today)
	sb.WriteString("\n")
	writeWindow(&sb, msgs, topWords, msgs.StatsMonth, stats.Month)
	sb.WriteString("\n")
	writeWindow(&sb, msgs, topWords, msgs.StatsAllTime, stats.AllTime)

	return sb.String()
}

func writeWindow(sb *strings.Builder, msgs *config.MessagesConfig, topWords int, header string, ws database.WindowStats) {
	sb.WriteString(header)

	if ws.Total == 0 {
		sb.WriteString(msgs.NoStats)
		sb.WriteString("\n")
		return
	}

	fmt.Fprintf(sb, "Total: *%d*\n", ws.Total)
	for i, wc := range ws.Words {
		if i >= topWords {
			break
		}
		fmt.Fprintf(sb, "  • %s: %d\n", wc.Word, wc.Count)
	}
}
