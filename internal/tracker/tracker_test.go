package tracker_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"fillerbot/internal/database"
	"fillerbot/internal/detector"
	"fillerbot/internal/tracker"
)

// recordingStore is an in-memory Store capturing recorded events.
type recordingStore struct {
	database.Store

	events    []database.UsageEvent
	failAfter int // fail when len(events) reaches this, -1 = never
}

func (s *recordingStore) RecordUsage(_ context.Context, event *database.UsageEvent) error {
	if s.failAfter >= 0 && len(s.events) >= s.failAfter {
		return database.ErrPersistence
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *recordingStore) UserStats(_ context.Context, userID, chatID int64) (*database.UserStats, error) {
	stats := &database.UserStats{}
	counts := make(map[string]int64)
	var order []string
	for _, ev := range s.events {
		if ev.UserID != userID || ev.ChatID != chatID {
			continue
		}
		if _, seen := counts[ev.Word]; !seen {
			order = append(order, ev.Word)
		}
		counts[ev.Word]++
	}
	for _, w := range order {
		stats.AllTime.Words = append(stats.AllTime.Words, database.WordCount{Word: w, Count: counts[w]})
		stats.AllTime.Total += counts[w]
	}
	return stats, nil
}

func TestProcessMessageRecordsEachMatch(t *testing.T) {
	t.Parallel()

	store := &recordingStore{failAfter: -1}
	tr := tracker.New(detector.New([]string{"um", "like"}), store, nil)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	matches, err := tr.ProcessMessage(context.Background(), 10, 20, "um, I like it. Um.", ts)
	if err != nil {
		t.Fatalf("ProcessMessage returned error: %v", err)
	}

	if want := []string{"um", "um", "like"}; !reflect.DeepEqual(matches, want) {
		t.Errorf("matches = %v, want %v", matches, want)
	}

	if len(store.events) != 3 {
		t.Fatalf("recorded %d events, want 3", len(store.events))
	}
	for i, ev := range store.events {
		if ev.UserID != 10 || ev.ChatID != 20 {
			t.Errorf("event %d attributed to (user %d, chat %d), want (10, 20)", i, ev.UserID, ev.ChatID)
		}
		if !ev.Timestamp.Equal(ts) {
			t.Errorf("event %d timestamp = %v, want %v", i, ev.Timestamp, ts)
		}
	}
}

func TestProcessMessageNoMatches(t *testing.T) {
	t.Parallel()

	store := &recordingStore{failAfter: -1}
	tr := tracker.New(detector.New([]string{"um"}), store, nil)

	matches, err := tr.ProcessMessage(context.Background(), 1, 1, "nothing to see here", time.Now())
	if err != nil {
		t.Fatalf("ProcessMessage returned error: %v", err)
	}
	if matches != nil {
		t.Errorf("matches = %v, want nil", matches)
	}
	if len(store.events) != 0 {
		t.Errorf("recorded %d events, want 0", len(store.events))
	}
}

func TestProcessMessagePropagatesPersistenceError(t *testing.T) {
	t.Parallel()

	store := &recordingStore{failAfter: 1}
	tr := tracker.New(detector.New([]string{"um"}), store, nil)

	_, err := tr.ProcessMessage(context.Background(), 1, 1, "um and um again", time.Now())
	if !errors.Is(err, database.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}

	// The first insert succeeded before the failure; append-only events
	// are never rolled back.
	if len(store.events) != 1 {
		t.Errorf("recorded %d events, want 1", len(store.events))
	}
}

func TestStatsDelegatesToStore(t *testing.T) {
	t.Parallel()

	store := &recordingStore{failAfter: -1}
	tr := tracker.New(detector.New([]string{"um", "like"}), store, nil)

	ctx := context.Background()
	if _, err := tr.ProcessMessage(ctx, 1, 1, "um um like", time.Now()); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if _, err := tr.ProcessMessage(ctx, 1, 2, "um", time.Now()); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	stats, err := tr.Stats(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.AllTime.Total != 3 {
		t.Errorf("chat 1 all-time total = %d, want 3 (chat 2 events must not leak)", stats.AllTime.Total)
	}
}
