package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/talentscout/internal/interview"
)

// ErrNotFound is returned for an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

type entry struct {
	mu         sync.Mutex
	sess       *interview.Session
	lastActive time.Time
}

// Manager keeps concurrent interviews apart. Each session has its own lock,
// so turns within one session are serialized while different sessions run
// in parallel.
type Manager struct {
	controller *interview.Controller
	onComplete interview.CompletionFunc
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates a manager. Sessions idle for longer than ttl are removed
// by Sweep; ttl <= 0 disables expiry.
func NewManager(controller *interview.Controller, onComplete interview.CompletionFunc, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		controller: controller,
		onComplete: onComplete,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*entry),
	}
}

// Create starts a new interview and returns its initial snapshot.
func (m *Manager) Create() interview.Snapshot {
	id := uuid.NewString()
	e := &entry{
		sess:       interview.NewSession(id, m.controller, m.onComplete),
		lastActive: m.now(),
	}

	m.mu.Lock()
	m.sessions[id] = e
	m.mu.Unlock()

	m.logger.Info("session created", "session", id)
	return e.sess.Snapshot()
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Get returns the current snapshot of a session.
func (m *Manager) Get(id string) (interview.Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return interview.Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Snapshot(), nil
}

// Advance runs one utterance through the session.
func (m *Manager) Advance(ctx context.Context, id, utterance string) (interview.Turn, interview.Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return interview.Turn{}, interview.Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	from := e.sess.State()
	turn := e.sess.Advance(ctx, utterance)
	e.lastActive = m.now()

	m.logger.Debug("turn processed",
		"session", id,
		"from", string(from),
		"to", string(turn.Next),
	)
	return turn, e.sess.Snapshot(), nil
}

// Reset restarts a session in place, keeping its id.
func (m *Manager) Reset(id string) (interview.Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return interview.Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sess.Reset()
	e.lastActive = m.now()
	m.logger.Info("session reset", "session", id)
	return e.sess.Snapshot(), nil
}

// Delete discards a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	m.logger.Info("session deleted", "session", id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were dropped. A session in the middle of a turn is never idle.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastActive.Before(cutoff)
		e.mu.Unlock()

		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("expired idle sessions", "removed", removed, "ttl", m.ttl.String())
	}
	return removed
}

// SweepTask adapts Sweep to the scheduler's task signature.
func (m *Manager) SweepTask(_ context.Context) error {
	m.Sweep()
	return nil
}
