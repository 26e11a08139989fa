package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/BigFish003/MTGnew/internal/catalog"
	"github.com/BigFish003/MTGnew/internal/config"
	"github.com/BigFish003/MTGnew/internal/draft"
)

// Session is one agent's draft. The table itself is single-threaded; the
// mutex only serializes access from the HTTP and websocket handlers.
type Session struct {
	ID string

	mu    sync.Mutex
	table *draft.Table
	index *catalog.Index
	cfg   config.DraftConfig
	seed  int64
}

func newSession(id string, index *catalog.Index, cfg config.DraftConfig, seed int64) *Session {
	table := draft.NewTable(draft.Config{
		Seats:    cfg.Seats,
		Rounds:   cfg.Rounds,
		PackSize: cfg.PackSize,
	}, index.Pools(), nil)
	s := &Session{ID: id, table: table, index: index, cfg: cfg, seed: seed}
	s.table.Reset(seed)
	return s
}

// Reset restarts the session's draft from a new seed and returns the turn
// zero observation.
func (s *Session) Reset(seed int64) *draft.Observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed = seed
	s.table.Reset(seed)
	return s.table.Observation(s.index.NumCards())
}

// Step applies a pick and returns the resulting observation and outcome.
func (s *Session) Step(slot int) (*draft.Observation, draft.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcome := s.table.Apply(slot)
	return s.table.Observation(s.index.NumCards()), outcome
}

// Observe encodes the current state without mutating it.
func (s *Session) Observe() *draft.Observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Observation(s.index.NumCards())
}

// Mask returns the current action validity mask.
func (s *Session) Mask() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Mask()
}

// Seed returns the seed the current draft was started from.
func (s *Session) Seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// Terminal reports whether the draft has completed.
func (s *Session) Terminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Terminal()
}

// Pool returns the pick history.
func (s *Session) Pool() []catalog.CardID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Picks()
}

// View returns the controlled seat's pack view for the current turn.
func (s *Session) View() RoundPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	pack := s.table.CurrentPack()
	names := make([]string, len(pack))
	for i, id := range pack {
		if id == draft.NoCard {
			continue
		}
		if name, ok := s.index.NameByID(id); ok {
			names[i] = name
		}
	}
	return RoundPayload{
		Round: s.table.Round(),
		Pick:  s.table.Pick(),
		Pack:  names,
		Mask:  s.table.Mask(),
	}
}

// BuildDeck assembles the constructed deck from the pick history.
func (s *Session) BuildDeck() []catalog.CardID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return draft.BuildDeck(s.table.Picks(), s.index, s.index.BasicLandIDs(),
		s.cfg.MainCount, s.cfg.LandCount)
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	index    *catalog.Index
	cfg      config.DraftConfig
}

// NewManager creates an empty session manager over a catalog index.
func NewManager(index *catalog.Index, cfg config.DraftConfig) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		index:    index,
		cfg:      cfg,
	}
}

// Create starts a new session with the given seed.
func (m *Manager) Create(seed int64) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	s := newSession(id, m.index, m.cfg, seed)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s, nil
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove discards a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Sessions are identified by a four byte url safe hex string.
func newSessionID() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
