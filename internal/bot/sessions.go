package bot

import (
	"sync"

	"consolejack/internal/game"
)

// Session is one chat's match. mu serializes updates from the same chat,
// which the update loop dispatches concurrently.
type Session struct {
	mu     sync.Mutex
	engine *game.Engine
	notes  []string
}

// Manager управляет активными играми
type Manager struct {
	sessions map[int64]*Session
	mu       sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

func (m *Manager) Get(chatID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[chatID]
}

// GetOrCreate returns the chat's session, adding an empty one on first use.
func (m *Manager) GetOrCreate(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[chatID]
	if !ok {
		s = &Session{}
		m.sessions[chatID] = s
	}
	return s
}

func (m *Manager) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}
