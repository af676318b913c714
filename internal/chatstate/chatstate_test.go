package chatstate_test

import (
	"sync"
	"testing"

	"fillerbot/internal/chatstate"
)

func TestManagerDefaultsInactive(t *testing.T) {
	t.Parallel()

	m := chatstate.NewManager()
	if m.IsActive(42) {
		t.Error("expected tracking to default to inactive")
	}
}

func TestManagerSetActive(t *testing.T) {
	t.Parallel()

	m := chatstate.NewManager()

	m.SetActive(1, true)
	if !m.IsActive(1) {
		t.Error("expected chat 1 to be active after SetActive(true)")
	}
	if m.IsActive(2) {
		t.Error("activating chat 1 must not affect chat 2")
	}

	m.SetActive(1, false)
	if m.IsActive(1) {
		t.Error("expected chat 1 to be inactive after SetActive(false)")
	}
}

func TestManagerToggle(t *testing.T) {
	t.Parallel()

	m := chatstate.NewManager()

	if got := m.Toggle(7); !got {
		t.Error("first toggle should enable tracking")
	}
	if got := m.Toggle(7); got {
		t.Error("second toggle should disable tracking")
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	t.Parallel()

	m := chatstate.NewManager()

	var wg sync.WaitGroup
	for i := range 50 {
		chatID := int64(i % 5)
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.SetActive(chatID, true)
		}()
		go func() {
			defer wg.Done()
			m.IsActive(chatID)
		}()
	}
	wg.Wait()

	for chatID := int64(0); chatID < 5; chatID++ {
		if !m.IsActive(chatID) {
			t.Errorf("expected chat %d to be active", chatID)
		}
	}
}
