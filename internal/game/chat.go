package game

import "github.com/tandemly/wordpair/internal"

// Chat is the capability surface of the room transport. Deliveries are
// fire-and-forget: a failed call is logged by the caller and aborts only
// the current action, never the session.
type Chat interface {
	// JoinRoom adds the coordinator itself to a room.
	JoinRoom(roomID string) error

	SendText(roomID, text, color string) error
	SendTextTo(roomID, receiverID, text, color string) error
	SendCommand(roomID string, cmd internal.ClientCommand) error
	SendCommandTo(roomID, receiverID string, cmd internal.ClientCommand) error

	// SetRoomText updates a named text element of the room layout
	// (title, subtitle, mode line).
	SetRoomText(roomID, element, text string) error
	// SetAttribute patches an attribute of a layout element, optionally
	// for a single receiver.
	SetAttribute(roomID, elementID, attribute, value, receiverID string) error
	AddClass(roomID, area, class, receiverID string) error
	RemoveClass(roomID, area, class, receiverID string) error

	// LogEvent appends a structured record to the room log.
	LogEvent(roomID, event string, data map[string]any, receiverID string) error

	RemoveFromRoom(roomID, participantID string) error
}

// Limiter throttles guess submissions per participant. A nil limiter
// admits everything.
type Limiter interface {
	Allow(participantID string) bool
}
