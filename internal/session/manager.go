package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
)

type Manager struct {
	opts     Options
	recorder SolveRecorder

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(opts Options, recorder SolveRecorder) *Manager {
	if opts.Locale == "" {
		opts.Locale = puzzle.DefaultLocale
	}
	return &Manager{
		opts:     opts,
		recorder: recorder,
		sessions: make(map[string]*Session),
	}
}

// Create starts a page showing defs. lang picks the status language; unknown
// languages fall back to the configured locale.
func (m *Manager) Create(setID string, defs []puzzle.Definition, lang string, overrides map[puzzle.Key]string) *Session {
	tr := puzzle.NewTranslator(lang, m.opts.Locale)
	if len(overrides) > 0 {
		tr = tr.With(overrides)
	}
	s := newSession(setID, defs, tr, m.opts, m.recorder)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	s.start()
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle since before now minus the TTL.
func (m *Manager) Sweep(now time.Time) int {
	if m.opts.TTL <= 0 {
		return 0
	}
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.opts.TTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done, then closes the rest.
func (m *Manager) Run(ctx context.Context) {
	interval := m.opts.TTL / 4
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case now := <-ticker.C:
			if n := m.Sweep(now); n > 0 {
				log.Printf("closed %d idle sessions", n)
			}
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
