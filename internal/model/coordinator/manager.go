package coordinator

import (
	"sync"

	"max.ks1230/income-planner/internal/entity/user"
)

// Manager keeps one coordinator per signed-in owner for front-ends that serve many owners.
type Manager struct {
	factory func() *Coordinator

	mu       sync.Mutex
	sessions map[string]*Coordinator
}

func NewManager(factory func() *Coordinator) *Manager {
	return &Manager{
		factory:  factory,
		sessions: make(map[string]*Coordinator),
	}
}

func (m *Manager) SignIn(owner user.Owner) *Coordinator {
	m.mu.Lock()
	c, ok := m.sessions[owner.ID]
	if !ok {
		c = m.factory()
		m.sessions[owner.ID] = c
	}
	m.mu.Unlock()

	c.SignIn(owner)
	return c
}

func (m *Manager) Session(ownerID string) (*Coordinator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.sessions[ownerID]
	return c, ok
}

func (m *Manager) SignOut(ownerID string) {
	m.mu.Lock()
	c, ok := m.sessions[ownerID]
	delete(m.sessions, ownerID)
	m.mu.Unlock()

	if ok {
		c.SignOut()
	}
}

func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Coordinator)
	m.mu.Unlock()

	for _, c := range sessions {
		c.Close()
	}
}
