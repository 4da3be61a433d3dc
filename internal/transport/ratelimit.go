package transport

import (
	"sync"

	"golang.org/x/time/rate"
)

// SubmissionGate throttles guess submissions per participant so a
// misbehaving client cannot flood the round state machine. Each
// participant gets their own token bucket, created lazily.
type SubmissionGate struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewSubmissionGate admits up to perSecond submissions per participant
// with the given burst.
func NewSubmissionGate(perSecond float64, burst int) *SubmissionGate {
	return &SubmissionGate{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether the participant may submit now.
func (g *SubmissionGate) Allow(participantID string) bool {
	g.mu.Lock()
	lim, ok := g.limiters[participantID]
	if !ok {
		lim = rate.NewLimiter(g.limit, g.burst)
		g.limiters[participantID] = lim
	}
	g.mu.Unlock()
	return lim.Allow()
}
