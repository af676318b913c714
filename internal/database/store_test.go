package database_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fillerbot/internal/database"
)

// newTestStore opens a fresh SQLite database in a temp directory and
// returns a store backed by it.
func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func record(t *testing.T, store database.Store, userID, chatID int64, word string, ts time.Time) {
	t.Helper()

	err := store.RecordUsage(context.Background(), &database.UsageEvent{
		UserID:    userID,
		ChatID:    chatID,
		Word:      word,
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("RecordUsage(%d, %d, %q): %v", userID, chatID, word, err)
	}
}

func TestRecordUsageAssignsID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	first := &database.UsageEvent{UserID: 1, ChatID: 1, Word: "um", Timestamp: time.Now()}
	if err := store.RecordUsage(context.Background(), first); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected first event to receive a generated ID")
	}

	second := &database.UsageEvent{UserID: 1, ChatID: 1, Word: "um", Timestamp: time.Now()}
	if err := store.RecordUsage(context.Background(), second); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("expected monotonically increasing IDs, got %d then %d", first.ID, second.ID)
	}
}

func TestRecordUsageDefaultsTimestamp(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	event := &database.UsageEvent{UserID: 1, ChatID: 1, Word: "um"}
	before := time.Now().UTC()
	if err := store.RecordUsage(context.Background(), event); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	after := time.Now().UTC()

	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Errorf("defaulted timestamp %v outside [%v, %v]", event.Timestamp, before, after)
	}
}

func TestRecordUsageValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	testCases := []struct {
		name  string
		event *database.UsageEvent
	}{
		{"nil event", nil},
		{"zero user_id", &database.UsageEvent{ChatID: 1, Word: "um"}},
		{"zero chat_id", &database.UsageEvent{UserID: 1, Word: "um"}},
		{"empty word", &database.UsageEvent{UserID: 1, ChatID: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := store.RecordUsage(context.Background(), tc.event)
			if err == nil {
				t.Error("expected validation error, got nil")
			}
			if errors.Is(err, database.ErrPersistence) {
				t.Errorf("validation failure must not be a persistence error: %v", err)
			}
		})
	}
}

func TestUserStatsEmptyPair(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	stats, err := store.UserStats(context.Background(), 99, 99)
	if err != nil {
		t.Fatalf("UserStats on untouched pair: %v", err)
	}

	for name, ws := range map[string]database.WindowStats{
		"today": stats.Today, "month": stats.Month, "all_time": stats.AllTime,
	} {
		if ws.Total != 0 {
			t.Errorf("%s total = %d, want 0", name, ws.Total)
		}
		if len(ws.Words) != 0 {
			t.Errorf("%s words = %v, want empty", name, ws.Words)
		}
	}
}

func TestUserStatsWindows(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	record(t, store, 1, 1, "like", now)
	record(t, store, 1, 1, "um", now.Add(-10*24*time.Hour))
	record(t, store, 1, 1, "um", now.Add(-31*24*time.Hour))

	stats, err := store.UserStats(ctx, 1, 1)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}

	if stats.Today.Total != 1 {
		t.Errorf("today total = %d, want 1", stats.Today.Total)
	}
	if len(stats.Today.Words) != 1 || stats.Today.Words[0].Word != "like" || stats.Today.Words[0].Count != 1 {
		t.Errorf("today words = %v, want [{like 1}]", stats.Today.Words)
	}

	// The 31-day-old event must fall out of the rolling 30-day window.
	if stats.Month.Total != 2 {
		t.Errorf("month total = %d, want 2", stats.Month.Total)
	}

	if stats.AllTime.Total != 3 {
		t.Errorf("all-time total = %d, want 3", stats.AllTime.Total)
	}
}

func TestUserStatsWordOrdering(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	now := time.Now()

	record(t, store, 1, 1, "um", now)
	record(t, store, 1, 1, "um", now)
	record(t, store, 1, 1, "actually", now)
	record(t, store, 1, 1, "like", now)

	stats, err := store.UserStats(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}

	words := stats.AllTime.Words
	if len(words) != 3 {
		t.Fatalf("got %d distinct words, want 3", len(words))
	}
	// Count descending, then word ascending.
	if words[0].Word != "um" || words[0].Count != 2 {
		t.Errorf("words[0] = %v, want {um 2}", words[0])
	}
	if words[1].Word != "actually" || words[2].Word != "like" {
		t.Errorf("tied words not ordered alphabetically: %v", words[1:])
	}
}

func TestUserStatsChatIsolation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	record(t, store, 1, 100, "um", now)
	record(t, store, 1, 100, "um", now)
	record(t, store, 1, 200, "like", now)

	statsA, err := store.UserStats(ctx, 1, 100)
	if err != nil {
		t.Fatalf("UserStats chat 100: %v", err)
	}
	statsB, err := store.UserStats(ctx, 1, 200)
	if err != nil {
		t.Fatalf("UserStats chat 200: %v", err)
	}

	if statsA.AllTime.Total != 2 {
		t.Errorf("chat 100 all-time total = %d, want 2", statsA.AllTime.Total)
	}
	if statsB.AllTime.Total != 1 {
		t.Errorf("chat 200 all-time total = %d, want 1", statsB.AllTime.Total)
	}
	if statsB.AllTime.Words[0].Word != "like" {
		t.Errorf("chat 200 words = %v, want [{like 1}]", statsB.AllTime.Words)
	}
}

func TestDeleteUserStats(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	record(t, store, 1, 1, "um", now)
	record(t, store, 1, 1, "like", now)
	record(t, store, 2, 1, "um", now)

	deleted, err := store.DeleteUserStats(ctx, 1, 1)
	if err != nil {
		t.Fatalf("DeleteUserStats: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted %d rows, want 2", deleted)
	}

	stats, err := store.UserStats(ctx, 1, 1)
	if err != nil {
		t.Fatalf("UserStats after delete: %v", err)
	}
	if stats.AllTime.Total != 0 {
		t.Errorf("user 1 all-time total after delete = %d, want 0", stats.AllTime.Total)
	}

	// Other users in the chat keep their events.
	other, err := store.UserStats(ctx, 2, 1)
	if err != nil {
		t.Fatalf("UserStats user 2: %v", err)
	}
	if other.AllTime.Total != 1 {
		t.Errorf("user 2 all-time total = %d, want 1", other.AllTime.Total)
	}
}

func TestDeleteChatStats(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	record(t, store, 1, 1, "um", now)
	record(t, store, 2, 1, "like", now)
	record(t, store, 1, 2, "um", now)

	deleted, err := store.DeleteChatStats(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteChatStats: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted %d rows, want 2", deleted)
	}

	// Chat 2 is untouched.
	stats, err := store.UserStats(ctx, 1, 2)
	if err != nil {
		t.Fatalf("UserStats chat 2: %v", err)
	}
	if stats.AllTime.Total != 1 {
		t.Errorf("chat 2 all-time total = %d, want 1", stats.AllTime.Total)
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	record(t, store, 1, 1, "um", time.Now())
	if _, err := store.DeleteChatStats(context.Background(), 1); err != nil {
		t.Fatalf("DeleteChatStats: %v", err)
	}

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Errorf("RunSQLMaintenance: %v", err)
	}
}
