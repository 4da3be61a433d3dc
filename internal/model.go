package internal

import "time"

const (
	// MaxAttempts is how many guesses a pair gets per item.
	MaxAttempts = 6

	// ParticipantsPerSession is fixed: this coordinator only runs
	// two-player games.
	ParticipantsPerSession = 2

	CodeLength   = 8
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultRoundDuration   = 20 * time.Minute
	DefaultGraceDuration   = 5 * time.Minute
	DefaultWaitingDuration = 10 * time.Minute
)

// GameMode controls how the two presentation payloads of an item are
// distributed between the participants.
type GameMode string

const (
	// ModeSame shows both participants the same payload.
	ModeSame GameMode = "same"
	// ModeDifferent shows each participant their own payload.
	ModeDifferent GameMode = "different"
	// ModeOneBlind shows the payload to the describer only; the guesser
	// sees a written hint instead.
	ModeOneBlind GameMode = "one_blind"
)

// OrderMode controls how items are drawn from the source list.
type OrderMode string

const (
	OrderLinear   OrderMode = "linear"
	OrderShuffled OrderMode = "shuffled"
)

// Role is assigned once per session in asymmetric modes and never changes.
type Role string

const (
	RoleNone      Role = ""
	RoleDescriber Role = "describer"
	RoleGuesser   Role = "guesser"
)

type ParticipantStatus string

const (
	StatusJoined ParticipantStatus = "joined"
	StatusReady  ParticipantStatus = "ready"
	StatusDone   ParticipantStatus = "done"
)

// Participant is one of the two players bound to a session.
type Participant struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Role         Role              `json:"role,omitempty"`
	Status       ParticipantStatus `json:"status"`
	MessageCount int               `json:"message_count"`
	Present      bool              `json:"present"`
}

// Item is one unit of game content: the target word plus up to two
// presentation payloads, one per participant. Either payload may be empty
// to implement asymmetric-information modes.
type Item struct {
	Target   string `json:"target"`
	PayloadA string `json:"payload_a,omitempty"`
	PayloadB string `json:"payload_b,omitempty"`
}

// RoundOutcome describes a single resolved round.
type RoundOutcome struct {
	Won               bool `json:"won"`
	PointsAwarded     int  `json:"points_awarded"`
	NextItemAvailable bool `json:"next_item_available"`
}

// MacroState is the session's observable lifecycle state.
type MacroState string

const (
	StateCreated           MacroState = "created"
	StateGreeting          MacroState = "greeting"
	StateInProgress        MacroState = "in_progress"
	StateClosingSuccess    MacroState = "closing_success"
	StateClosingTimeout    MacroState = "closing_timeout"
	StateClosingDisconnect MacroState = "closing_disconnect"
	StateClosed            MacroState = "closed"
)

// CloseStatus is the per-participant status recorded with a confirmation
// code when a session terminates.
type CloseStatus string

const (
	CloseSuccess       CloseStatus = "success"
	CloseDisconnection CloseStatus = "disconnection"
	CloseTimeout       CloseStatus = "timeout"
	CloseNoPartner     CloseStatus = "no_partner"
)

// SessionStatus is a read-only snapshot served by the status endpoints.
type SessionStatus struct {
	RoomID         string     `json:"room_id"`
	State          MacroState `json:"state"`
	Points         int        `json:"points"`
	ItemsRemaining int        `json:"items_remaining"`
	Participants   []string   `json:"participants"`
}
