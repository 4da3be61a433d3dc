package game

import "errors"

// Invariant violations surface as distinguishable errors rather than
// silently coerced state.
var (
	ErrDuplicateSession   = errors.New("session already exists for room")
	ErrSessionTerminated  = errors.New("session is terminated")
	ErrUnknownParticipant = errors.New("participant does not belong to session")
	ErrSessionFull        = errors.New("session already has two participants")
)
