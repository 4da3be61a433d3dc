package transport

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/tandemly/wordpair/internal"
	"github.com/tandemly/wordpair/internal/logger"
)

// =============================================================================
// INBOUND EVENT STREAM
// =============================================================================

// inFrame mirrors the platform's websocket event envelope. Only the
// fields the coordinator cares about are decoded.
type inFrame struct {
	Type    string             `json:"type"`
	Room    string             `json:"room"`
	Task    string             `json:"task"`
	User    internal.UserRef   `json:"user"`
	Users   []internal.UserRef `json:"users"`
	Message string             `json:"message"`
	Command json.RawMessage    `json:"command"`
}

// commandBody is the structured command payload clients submit.
type commandBody struct {
	Guess *string `json:"guess"`
}

// ReadEvents decodes websocket frames into events until the connection
// dies, then closes the channel. Frames of unknown type are dropped with
// a debug log; decoding happens here and nowhere else.
func (c *Client) ReadEvents(events chan<- internal.Event) {
	defer close(events)

	for {
		var frame inFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				errors.Is(err, websocket.ErrCloseSent) {
				logger.Info("[ReadEvents] connection closed")
			} else {
				logger.Criticalf("[ReadEvents] read failed: %v", err)
			}
			return
		}

		ev, ok := decode(frame)
		if !ok {
			logger.Debugf("[ReadEvents] dropping frame type %q", frame.Type)
			continue
		}
		events <- ev
	}
}

func decode(frame inFrame) (internal.Event, bool) {
	switch frame.Type {
	case "new_task_room":
		return internal.Event{
			Kind:   internal.EventRoomCreated,
			RoomID: frame.Room,
			TaskID: frame.Task,
			Users:  frame.Users,
		}, true

	case "status_join":
		return internal.Event{
			Kind:   internal.EventJoined,
			RoomID: frame.Room,
			User:   frame.User,
		}, true

	case "status_leave":
		return internal.Event{
			Kind:   internal.EventLeft,
			RoomID: frame.Room,
			User:   frame.User,
		}, true

	case "text_message":
		return internal.Event{
			Kind:   internal.EventText,
			RoomID: frame.Room,
			User:   frame.User,
			Text:   frame.Message,
		}, true

	case "command":
		return internal.Event{
			Kind:    internal.EventCommand,
			RoomID:  frame.Room,
			User:    frame.User,
			Command: decodeCommand(frame.Command),
		}, true
	}
	return internal.Event{}, false
}

// decodeCommand folds the raw command payload into the closed command
// union. Anything without a guess field stays unknown; the game layer
// answers those with a canned reply.
func decodeCommand(raw json.RawMessage) internal.Command {
	var body commandBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Guess != nil {
		return internal.GuessCommand{Guess: strings.TrimSpace(*body.Guess)}
	}
	return internal.UnknownCommand{Raw: string(raw)}
}
