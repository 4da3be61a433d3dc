package game

import (
	"sync"

	"github.com/tandemly/wordpair/internal"
	"github.com/tandemly/wordpair/internal/logger"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// Session is the authoritative state of one game bound to one room. Every
// read or mutation of its fields happens under mu, held across an entire
// transition; timer callbacks re-enter through the same lock and abort
// once terminated is set.
type Session struct {
	mu sync.Mutex

	roomID       string
	mode         internal.GameMode
	participants []*internal.Participant

	items   *ItemSequence
	pending map[string]string

	// history is the append-only record of resolved guesses;
	// roundStart marks where the open round's slice begins, which is
	// what a rejoining participant gets replayed.
	history    []string
	roundStart int

	points   int
	attempts int

	// round counts opened rounds. The round timer callback carries the
	// value it was armed with and, under mu, aborts once the session
	// has moved past that round; the timer-set staleness check alone
	// runs outside this lock and cannot see a win that resolved while
	// the callback was parked waiting for it.
	round int

	// roundMessages counts chat messages exchanged during the open
	// round; a round that times out with no activity at all marks the
	// whole pair as inactive.
	roundMessages int

	state      internal.MacroState
	terminated bool

	timers *TimerSet
}

func newSession(roomID string, items *ItemSequence, mode internal.GameMode) *Session {
	return &Session{
		roomID:   roomID,
		mode:     mode,
		items:    items,
		pending:  make(map[string]string),
		attempts: internal.MaxAttempts,
		state:    internal.StateCreated,
		timers:   NewTimerSet(),
	}
}

// addParticipant registers a player slot. The slot order is meaningful:
// slot 0 is presented side A of each item, slot 1 side B.
func (s *Session) addParticipant(user internal.UserRef) error {
	if len(s.participants) >= internal.ParticipantsPerSession {
		return ErrSessionFull
	}
	s.participants = append(s.participants, &internal.Participant{
		ID:      user.ID,
		Name:    user.Name,
		Status:  internal.StatusJoined,
		Present: true,
	})
	return nil
}

// pair resolves an incoming participant id into (self, peer). This is the
// only way event handlers look the two slots up.
func (s *Session) pair(participantID string) (self, peer *internal.Participant, err error) {
	if len(s.participants) != internal.ParticipantsPerSession {
		return nil, nil, ErrUnknownParticipant
	}
	switch participantID {
	case s.participants[0].ID:
		return s.participants[0], s.participants[1], nil
	case s.participants[1].ID:
		return s.participants[1], s.participants[0], nil
	}
	return nil, nil, ErrUnknownParticipant
}

// ensureActive reports ErrSessionTerminated once the session is closed;
// mutation after that point is a defect in the caller. Callers hold s.mu.
func (s *Session) ensureActive() error {
	if s.terminated {
		return ErrSessionTerminated
	}
	return nil
}

// addPoints adjusts the pair score, clamped at zero.
func (s *Session) addPoints(delta int) {
	s.points += delta
	if s.points < 0 {
		s.points = 0
	}
}

// closeLocked marks the session terminated and cancels every timer.
// Callers hold s.mu. Repeated calls are no-ops.
func (s *Session) closeLocked() {
	if s.terminated {
		return
	}
	s.terminated = true
	s.state = internal.StateClosed
	for _, p := range s.participants {
		p.Status = internal.StatusDone
	}
	s.timers.CancelAll()
}

// Close terminates the session and cancels its timers. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// Points returns the pair's current score.
func (s *Session) Points() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

// State returns the session's macro state.
func (s *Session) State() internal.MacroState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status snapshots the session for the read-only HTTP surface.
func (s *Session) Status() internal.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.participants))
	for _, p := range s.participants {
		names = append(names, p.Name)
	}
	return internal.SessionStatus{
		RoomID:         s.roomID,
		State:          s.state,
		Points:         s.points,
		ItemsRemaining: s.items.Remaining(),
		Participants:   names,
	}
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// SessionManager is the only structure shared across sessions: the
// room-id to session mapping. Create and Destroy are atomic with respect
// to concurrent lookups.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Create registers a new session for roomID. Creating over a live session
// would leak its timer set, so it fails with ErrDuplicateSession instead.
func (m *SessionManager) Create(roomID string, items *ItemSequence, mode internal.GameMode) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[roomID]; exists {
		return nil, ErrDuplicateSession
	}
	s := newSession(roomID, items, mode)
	m.sessions[roomID] = s
	logger.Infof("[SessionManager] created session for room %s (%d items, mode=%s)",
		roomID, items.Remaining(), mode)
	return s, nil
}

// Get returns the session for roomID, or nil.
func (m *SessionManager) Get(roomID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[roomID]
}

// Destroy closes the session for roomID and removes it. Reports whether a
// session was present; destroying an absent room is a no-op.
func (m *SessionManager) Destroy(roomID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[roomID]
	if ok {
		delete(m.sessions, roomID)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	logger.Infof("[SessionManager] destroyed session for room %s", roomID)
	return true
}

// remove drops the map entry without touching the session, for callers
// that already hold the session lock and have closed it themselves.
func (m *SessionManager) remove(roomID string) {
	m.mu.Lock()
	delete(m.sessions, roomID)
	m.mu.Unlock()
}

// Len reports how many sessions are live.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RoomIDs lists the rooms with a live session.
func (m *SessionManager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Statuses snapshots every live session.
func (m *SessionManager) Statuses() []internal.SessionStatus {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	statuses := make([]internal.SessionStatus, 0, len(sessions))
	for _, s := range sessions {
		statuses = append(statuses, s.Status())
	}
	return statuses
}
