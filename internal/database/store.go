package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrPersistence marks failures of the backing store. Callers can use
// errors.Is to distinguish persistence failures from validation errors.
// The store never retries internally; retry policy belongs to the caller.
var ErrPersistence = errors.New("persistence error")

// monthWindow is the rolling duration of the "last 30 days" window,
// recomputed at query time rather than calendar-aligned.
const monthWindow = 30 * 24 * time.Hour

// Store defines the interface for usage event persistence and aggregation.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordUsage appends one immutable usage event. A zero Timestamp
	// defaults to the current time. The generated ID is written back
	// into the event.
	RecordUsage(ctx context.Context, event *UsageEvent) error

	// UserStats aggregates events for one (user, chat) pair over the
	// today / last-30-days / all-time windows. A pair with no events
	// yields zero totals and empty word lists, never an error.
	UserStats(ctx context.Context, userID, chatID int64) (*UserStats, error)

	// DeleteUserStats removes all events for one (user, chat) pair and
	// returns the number of rows deleted.
	DeleteUserStats(ctx context.Context, userID, chatID int64) (int64, error)

	// DeleteChatStats removes all events for a chat, across all users,
	// and returns the number of rows deleted.
	DeleteChatStats(ctx context.Context, chatID int64) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping failed: %w", ErrPersistence, err)
	}
	return nil
}

// RecordUsage appends one usage event. Each call is a single atomic insert;
// events are never updated afterwards.
func (s *sqlxStore) RecordUsage(ctx context.Context, event *UsageEvent) error {
	if event == nil {
		return fmt.Errorf("cannot record nil usage event")
	}
	if event.UserID == 0 {
		return fmt.Errorf("usage event must have a non-zero user_id")
	}
	if event.ChatID == 0 {
		return fmt.Errorf("usage event must have a non-zero chat_id")
	}
	if event.Word == "" {
		return fmt.Errorf("usage event must have a non-empty word")
	}

	now := time.Now().UTC()
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}
	event.CreatedAt = now

	query := `
        INSERT INTO usage_events (user_id, chat_id, word, timestamp, created_at)
        VALUES (:user_id, :chat_id, :word, :timestamp, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording usage event",
			"chat_id", event.ChatID, "user_id", event.UserID, "word", event.Word, "error", err)
		return fmt.Errorf("%w: failed to record usage event (chat %d, user %d): %w",
			ErrPersistence, event.ChatID, event.UserID, err)
	}

	if id, idErr := result.LastInsertId(); idErr == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		event.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after recording usage event",
			"chat_id", event.ChatID, "user_id", event.UserID, "error", idErr)
	}

	s.logger.DebugContext(ctx, "Usage event recorded",
		"chat_id", event.ChatID, "user_id", event.UserID, "word", event.Word, "event_id", event.ID)
	return nil
}

// UserStats aggregates events for one (user, chat) pair over the three
// reporting windows. The "today" window starts at local midnight; the
// 30-day window rolls back from the current instant.
func (s *sqlxStore) UserStats(ctx context.Context, userID, chatID int64) (*UserStats, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}

	now := time.Now()
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	monthAgo := now.Add(-monthWindow)

	stats := &UserStats{}

	windows := []struct {
		name  string
		since *time.Time
		dest  *WindowStats
	}{
		{"today", &midnight, &stats.Today},
		{"month", &monthAgo, &stats.Month},
		{"all_time", nil, &stats.AllTime},
	}

	for _, w := range windows {
		ws, err := s.windowStats(ctx, userID, chatID, w.since)
		if err != nil {
			s.logger.ErrorContext(ctx, "Error aggregating usage stats",
				"window", w.name, "chat_id", chatID, "user_id", userID, "error", err)
			return nil, fmt.Errorf("%w: failed to aggregate %s stats (chat %d, user %d): %w",
				ErrPersistence, w.name, chatID, userID, err)
		}
		*w.dest = ws
	}

	s.logger.DebugContext(ctx, "Aggregated usage stats",
		"chat_id", chatID, "user_id", userID, "all_time_total", stats.AllTime.Total)
	return stats, nil
}

// windowStats runs one grouped aggregation query. A nil since means no
// lower time bound. Timestamps are stored in UTC, so the boundary is
// converted before comparison.
func (s *sqlxStore) windowStats(ctx context.Context, userID, chatID int64, since *time.Time) (WindowStats, error) {
	var (
		words []WordCount
		err   error
	)

	if since != nil {
		query := `
            SELECT word, COUNT(*) AS count
            FROM usage_events
            WHERE user_id = ? AND chat_id = ? AND timestamp >= ?
            GROUP BY word
            ORDER BY count DESC, word ASC;
        `
		err = s.db.SelectContext(ctx, &words, query, userID, chatID, since.UTC())
	} else {
		query := `
            SELECT word, COUNT(*) AS count
            FROM usage_events
            WHERE user_id = ? AND chat_id = ?
            GROUP BY word
            ORDER BY count DESC, word ASC;
        `
		err = s.db.SelectContext(ctx, &words, query, userID, chatID)
	}
	if err != nil {
		return WindowStats{}, err
	}

	ws := WindowStats{Words: words}
	for _, wc := range words {
		ws.Total += wc.Count
	}
	return ws, nil
}

// DeleteUserStats removes all events for one (user, chat) pair.
func (s *sqlxStore) DeleteUserStats(ctx context.Context, userID, chatID int64) (int64, error) {
	if userID == 0 {
		return 0, fmt.Errorf("user_id cannot be zero")
	}
	if chatID == 0 {
		return 0, fmt.Errorf("chat_id cannot be zero")
	}

	query := `DELETE FROM usage_events WHERE user_id = ? AND chat_id = ?`
	result, err := s.db.ExecContext(ctx, query, userID, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting user stats",
			"chat_id", chatID, "user_id", userID, "error", err)
		return 0, fmt.Errorf("%w: failed to delete stats (chat %d, user %d): %w",
			ErrPersistence, chatID, userID, err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted user stats",
		"chat_id", chatID, "user_id", userID, "count", count)
	return count, nil
}

// DeleteChatStats removes all events for a chat, across all users.
func (s *sqlxStore) DeleteChatStats(ctx context.Context, chatID int64) (int64, error) {
	if chatID == 0 {
		return 0, fmt.Errorf("chat_id cannot be zero")
	}

	query := `DELETE FROM usage_events WHERE chat_id = ?`
	result, err := s.db.ExecContext(ctx, query, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting chat stats", "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("%w: failed to delete stats for chat %d: %w", ErrPersistence, chatID, err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted chat stats", "chat_id", chatID, "count", count)
	return count, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
// VACUUM must run outside a transaction in SQLite.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("%w: failed to execute VACUUM: %w", ErrPersistence, err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
