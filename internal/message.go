package internal

// =============================================================================
// INBOUND EVENTS
// =============================================================================

// EventKind is the closed set of transport events the coordinator reacts
// to. Frames are decoded into this union exactly once, at the transport
// boundary.
type EventKind string

const (
	EventRoomCreated EventKind = "room_created"
	EventJoined      EventKind = "participant_joined"
	EventLeft        EventKind = "participant_left"
	EventText        EventKind = "text_message"
	EventCommand     EventKind = "command"
)

// UserRef identifies a chat user as reported by the transport.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event is a single inbound room event. Which fields are meaningful
// depends on Kind: Users is set for room-created events, User for
// join/leave/text/command events, Text for text messages and Command for
// structured commands.
type Event struct {
	Kind    EventKind
	RoomID  string
	TaskID  string
	User    UserRef
	Users   []UserRef
	Text    string
	Command Command
}

// Command is the closed variant of structured commands a client can send.
type Command interface {
	isCommand()
}

// GuessCommand is a submitted guess for the current item.
type GuessCommand struct {
	Guess string
}

// UnknownCommand carries anything the boundary decoder did not recognize.
// It has a single response path: a "not understood" reply to the sender.
type UnknownCommand struct {
	Raw string
}

func (GuessCommand) isCommand()   {}
func (UnknownCommand) isCommand() {}

// =============================================================================
// OUTBOUND EFFECTS
// =============================================================================

// Message colors, matching the front-end plugin's expectations.
const (
	StandardColor = "Purple"
	WarningColor  = "FireBrick"
)

// ClientCommand is a structured command pushed to the room's front end.
type ClientCommand struct {
	Command string `json:"command"`
	Guess   string `json:"guess,omitempty"`
	Target  string `json:"correct_word,omitempty"`
}

// Front-end command verbs.
const (
	CommandBoardInit = "wordle_init"
	CommandShowGuess = "wordle_guess"
	CommandUnsubmit  = "unsubmit"
)
