// Package chatstate tracks the per-chat on/off gate controlling whether
// messages in a chat are scanned for filler words. State lives in process
// memory; every chat starts with tracking disabled.
package chatstate

import (
	"sync"
)

// Manager holds the tracking state for all chats. It is safe for
// concurrent use.
type Manager struct {
	mu     sync.RWMutex
	active map[int64]bool
}

// NewManager creates an empty state manager.
func NewManager() *Manager {
	return &Manager{
		active: make(map[int64]bool),
	}
}

// IsActive reports whether tracking is enabled for the chat.
func (m *Manager) IsActive(chatID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[chatID]
}

// SetActive enables or disables tracking for the chat.
func (m *Manager) SetActive(chatID int64, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[chatID] = active
}

// Toggle flips the tracking state for the chat and returns the new state.
func (m *Manager) Toggle(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[chatID] = !m.active[chatID]
	return m.active[chatID]
}
