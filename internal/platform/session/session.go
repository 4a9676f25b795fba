// Package session holds per-session state. Each browser session owns its
// own patient store and its own last diagnosis result; nothing is shared
// across sessions. State is created on first use and discarded after a TTL
// of inactivity.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/patientdx/patientdx/internal/domain/patient"
)

// State is the mutable state of one session.
type State struct {
	ID       string
	Patients *patient.Store

	mu              sync.Mutex
	lastSeen        time.Time
	diagnosisResult string
	runInFlight     bool
}

// Touch marks the session as recently used.
func (s *State) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of last activity.
func (s *State) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// DiagnosisResult returns the raw text of the last diagnosis run, or ""
// when no run has happened yet.
func (s *State) DiagnosisResult() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagnosisResult
}

// SetDiagnosisResult overwrites the session-wide result blob.
func (s *State) SetDiagnosisResult(text string) {
	s.mu.Lock()
	s.diagnosisResult = text
	s.mu.Unlock()
}

// BeginRun marks a diagnosis run as in flight. It returns false when one is
// already running for this session.
func (s *State) BeginRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runInFlight {
		return false
	}
	s.runInFlight = true
	return true
}

// EndRun clears the in-flight flag.
func (s *State) EndRun() {
	s.mu.Lock()
	s.runInFlight = false
	s.mu.Unlock()
}

// Manager creates, resolves, and expires session state. New sessions are
// seeded with a copy of the initial patient snapshot.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*State
	snapshot []*patient.Record
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewManager(snapshot []*patient.Record, ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*State),
		snapshot: snapshot,
		ttl:      ttl,
		logger:   logger,
	}
}

// GetOrCreate returns the state for id, creating a fresh seeded session
// when the id is unknown. An empty id always creates a new session under a
// generated id.
func (m *Manager) GetOrCreate(id string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.Touch(time.Now())
			return s
		}
	} else {
		id = uuid.New().String()
	}

	s := &State{
		ID:       id,
		Patients: patient.NewStoreFromRecords(m.snapshot),
		lastSeen: time.Now(),
	}
	m.sessions[id] = s
	m.logger.Debug().Str("session_id", id).Msg("session created")
	return s
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep discards sessions idle longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("expired idle sessions")
	}
	return removed
}

// StartJanitor sweeps periodically until ctx is cancelled.
func (m *Manager) StartJanitor(ctx context.Context) {
	interval := m.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}
