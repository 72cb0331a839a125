package session

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/proctor"
)

// Manager owns the live sessions. At most one active session per user; a
// session disappears from the manager the moment it completes or terminates,
// after which only its persisted record exists.
type Manager struct {
	mu     sync.Mutex
	byID   map[string]*Runner
	byUser map[string]string
}

func NewManager() *Manager {
	return &Manager{
		byID:   make(map[string]*Runner),
		byUser: make(map[string]string),
	}
}

func (m *Manager) Start(machine *Machine, monitor *proctor.Monitor, detector Detector, sink Sink, opts Options) (*Runner, error) {
	snap := machine.Snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, active := m.byUser[snap.UserID]; active {
		return nil, ErrSessionActive
	}

	runner := NewRunner(machine, monitor, detector, sink, opts, m.remove)
	m.byID[snap.SessionID] = runner
	m.byUser[snap.UserID] = snap.SessionID

	runner.Start()
	log.Info().Str("sessionID", snap.SessionID).Str("userID", snap.UserID).Msg("Session started")
	return runner, nil
}

func (m *Manager) Get(sessionID string) (*Runner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runner, ok := m.byID[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return runner, nil
}

func (m *Manager) remove(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, snap.SessionID)
	delete(m.byUser, snap.UserID)
	log.Info().Str("sessionID", snap.SessionID).Bool("terminated", snap.Terminated).Msg("Session removed")
}
