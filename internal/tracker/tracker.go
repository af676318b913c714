// Package tracker composes the filler word detector with the usage event
// store. It is the in-process surface the transport layer calls for each
// incoming message and each stats request. Access control and the per-chat
// tracking gate are the caller's responsibility; the tracker itself scans
// and records unconditionally.
package tracker

import (
	"context"
	"io"
	"log/slog"
	"time"

	"fillerbot/internal/database"
	"fillerbot/internal/detector"
)

// Tracker detects filler words in messages and records one usage event
// per occurrence.
type Tracker struct {
	detector *detector.Detector
	store    database.Store
	logger   *slog.Logger
}

// New creates a Tracker from a detector and a store.
func New(det *detector.Detector, store database.Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{
		detector: det,
		store:    store,
		logger:   logger.With("component", "tracker"),
	}
}

// ProcessMessage scans a message for filler words and records one usage
// event per match, attributed to the (user, chat) pair with the message
// timestamp. It returns the matched terms in detection order so the caller
// can format a notification. A persistence failure stops recording and is
// returned to the caller; events already recorded stay recorded.
func (t *Tracker) ProcessMessage(ctx context.Context, userID, chatID int64, text string, timestamp time.Time) ([]string, error) {
	matches := t.detector.Detect(text)
	if len(matches) == 0 {
		return nil, nil
	}

	for _, word := range matches {
		event := &database.UsageEvent{
			UserID:    userID,
			ChatID:    chatID,
			Word:      word,
			Timestamp: timestamp,
		}
		if err := t.store.RecordUsage(ctx, event); err != nil {
			t.logger.ErrorContext(ctx, "Failed to record filler word usage",
				"chat_id", chatID, "user_id", userID, "word", word, "error", err)
			return matches, err
		}
	}

	t.logger.InfoContext(ctx, "Filler words detected",
		"chat_id", chatID, "user_id", userID, "count", len(matches), "words", matches)
	return matches, nil
}

// Stats returns the aggregated usage statistics for one (user, chat) pair
// over the today / last-30-days / all-time windows.
func (t *Tracker) Stats(ctx context.Context, userID, chatID int64) (*database.UserStats, error) {
	return t.store.UserStats(ctx, userID, chatID)
}
