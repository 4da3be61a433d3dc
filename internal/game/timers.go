package game

import (
	"sync"
	"time"

	"github.com/tandemly/wordpair/internal/logger"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// TimerSet owns every delayed callback scoped to one session: the single
// round timer and one grace timer per participant who left the room.
//
// The two kinds deliberately behave differently. Starting the round timer
// always cancels the previous one (last call wins); a grace timer is only
// started when none is running for that participant, so repeated leave
// signals cannot extend the grace period. Callbacks run on timer
// goroutines and race against cancellation; a generation counter makes a
// fired-but-stale callback a no-op.
type TimerSet struct {
	mu        sync.Mutex
	roundGen  uint64
	round     *time.Timer
	graceGen  map[string]uint64
	grace     map[string]*time.Timer
	cancelled bool
}

func NewTimerSet() *TimerSet {
	return &TimerSet{
		graceGen: make(map[string]uint64),
		grace:    make(map[string]*time.Timer),
	}
}

// StartRoundTimer schedules fn after d, replacing any round timer that is
// still pending.
func (ts *TimerSet) StartRoundTimer(d time.Duration, fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.cancelled {
		return
	}
	if ts.round != nil {
		ts.round.Stop()
	}
	ts.roundGen++
	gen := ts.roundGen
	ts.round = time.AfterFunc(d, func() {
		ts.mu.Lock()
		stale := ts.cancelled || gen != ts.roundGen
		ts.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
}

// OnParticipantLeft starts the grace timer for participantID unless one
// is already running for them.
func (ts *TimerSet) OnParticipantLeft(participantID string, d time.Duration, fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.cancelled {
		return
	}
	if _, running := ts.grace[participantID]; running {
		logger.Debugf("[TimerSet] grace timer already running for %s, leaving it untouched", participantID)
		return
	}
	ts.graceGen[participantID]++
	gen := ts.graceGen[participantID]
	ts.grace[participantID] = time.AfterFunc(d, func() {
		ts.mu.Lock()
		stale := ts.cancelled || gen != ts.graceGen[participantID]
		if !stale {
			delete(ts.grace, participantID)
		}
		ts.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
}

// OnParticipantJoined cancels and removes the grace timer for
// participantID, if any.
func (ts *TimerSet) OnParticipantJoined(participantID string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if t, running := ts.grace[participantID]; running {
		t.Stop()
		ts.graceGen[participantID]++
		delete(ts.grace, participantID)
	}
}

// CancelAll cancels the round timer and every grace timer. Safe to call
// repeatedly and from any goroutine; no callback observes a world where
// CancelAll has returned.
func (ts *TimerSet) CancelAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.cancelled = true
	if ts.round != nil {
		ts.round.Stop()
		ts.round = nil
	}
	for id, t := range ts.grace {
		t.Stop()
		delete(ts.grace, id)
	}
}
