package app

import (
	"errors"
	"log/slog"
	"sync"
)

var ErrSessionNotFound = errors.New("checkout: session not found")

// Manager owns the live checkout sessions. Completed and abandoned
// sessions stay retrievable until dropped so confirmations can still
// be fetched.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	validator *Validator
	promos    *PromoSet
	placer    OrderPlacer
	log       *slog.Logger
}

func NewManager(validator *Validator, promos *PromoSet, placer OrderPlacer, log *slog.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		validator: validator,
		promos:    promos,
		placer:    placer,
		log:       log,
	}
}

// Begin snapshots the cart and opens a new session on the shipping
// step. An empty cart cannot enter checkout.
func (m *Manager) Begin(cart Cart) (*Session, error) {
	s, err := newSession(cart, m.validator, m.promos, m.placer, m.log)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.log.Info("checkout started",
		slog.String("session_id", s.id),
		slog.Int("items", len(s.draft.Items)),
	)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Abandon closes a session and removes it from the live set.
func (m *Manager) Abandon(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	if err := s.Abandon(); err != nil && !errors.Is(err, ErrSessionClosed) {
		return err
	}
	return nil
}
