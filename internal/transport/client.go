package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tandemly/wordpair/internal"
	"github.com/tandemly/wordpair/internal/config"
)

// =============================================================================
// CHAT PLATFORM CLIENT
// =============================================================================

// Client talks to the chat platform on two channels: room events and
// message delivery go over the websocket, while layout manipulation,
// membership and logging use the REST API. One Client serves all rooms.
type Client struct {
	base    string
	token   string
	botUser string
	http    *http.Client

	// writeMu serializes websocket writes; gorilla allows at most one
	// concurrent writer per connection.
	writeMu sync.Mutex
	conn    *websocket.Conn
}

// Dial connects the websocket and returns a ready client. The caller
// owns the connection lifetime through Close.
func Dial(cfg *config.Config) (*Client, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.BotToken)

	// http -> ws, https -> wss.
	wsURL := strings.Replace(cfg.ChatURL(), "http", "ws", 1) + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}

	return &Client{
		base:    cfg.ChatURL() + "/slurk/api",
		token:   cfg.BotToken,
		botUser: cfg.BotUser,
		http:    &http.Client{Timeout: 10 * time.Second},
		conn:    conn,
	}, nil
}

// Close tears down the websocket connection.
func (c *Client) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// =============================================================================
// WEBSOCKET DELIVERY
// =============================================================================

// outFrame is the envelope for everything pushed over the websocket.
type outFrame struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Room     string `json:"room"`
	Receiver string `json:"receiver_id,omitempty"`
	Message  string `json:"message,omitempty"`
	Color    string `json:"color,omitempty"`
	Command  any    `json:"command,omitempty"`
}

func (c *Client) writeFrame(f outFrame) error {
	f.ID = uuid.NewString()
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(f)
}

// SendText delivers a chat message to everyone in the room.
func (c *Client) SendText(roomID, text, color string) error {
	return c.writeFrame(outFrame{
		Type:    "text",
		Room:    roomID,
		Message: text,
		Color:   color,
	})
}

// SendTextTo delivers a chat message to a single participant.
func (c *Client) SendTextTo(roomID, receiverID, text, color string) error {
	return c.writeFrame(outFrame{
		Type:     "text",
		Room:     roomID,
		Receiver: receiverID,
		Message:  text,
		Color:    color,
	})
}

// SendCommand pushes a structured command to every client in the room.
func (c *Client) SendCommand(roomID string, cmd internal.ClientCommand) error {
	return c.writeFrame(outFrame{
		Type:    "message_command",
		Room:    roomID,
		Command: cmd,
	})
}

// SendCommandTo pushes a structured command to a single participant.
func (c *Client) SendCommandTo(roomID, receiverID string, cmd internal.ClientCommand) error {
	return c.writeFrame(outFrame{
		Type:     "message_command",
		Room:     roomID,
		Receiver: receiverID,
		Command:  cmd,
	})
}

// =============================================================================
// REST LAYOUT AND MEMBERSHIP
// =============================================================================

func (c *Client) do(method, path string, body any, header http.Header) (*http.Response, error) {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.base+path, buf)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		req.Header[key] = values
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}
	return resp, nil
}

func (c *Client) doDiscard(method, path string, body any) error {
	resp, err := c.do(method, path, body, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// JoinRoom adds the coordinator's own user to a room so it can send
// messages there.
func (c *Client) JoinRoom(roomID string) error {
	return c.doDiscard(http.MethodPost,
		fmt.Sprintf("/users/%s/rooms/%s", c.botUser, roomID), nil)
}

// SetRoomText updates a named text element of the room layout.
func (c *Client) SetRoomText(roomID, element, text string) error {
	return c.doDiscard(http.MethodPatch,
		fmt.Sprintf("/rooms/%s/text/%s", roomID, element),
		map[string]any{"text": text})
}

// SetAttribute patches an attribute of a layout element. An empty
// receiver applies the change room-wide.
func (c *Client) SetAttribute(roomID, elementID, attribute, value, receiverID string) error {
	body := map[string]any{
		"attribute": attribute,
		"value":     value,
	}
	if receiverID != "" {
		body["receiver_id"] = receiverID
	}
	return c.doDiscard(http.MethodPatch,
		fmt.Sprintf("/rooms/%s/attribute/id/%s", roomID, elementID), body)
}

// AddClass attaches a CSS class to a layout area.
func (c *Client) AddClass(roomID, area, class, receiverID string) error {
	body := map[string]any{"class": class}
	if receiverID != "" {
		body["receiver_id"] = receiverID
	}
	return c.doDiscard(http.MethodPost,
		fmt.Sprintf("/rooms/%s/class/%s", roomID, area), body)
}

// RemoveClass detaches a CSS class from a layout area.
func (c *Client) RemoveClass(roomID, area, class, receiverID string) error {
	body := map[string]any{"class": class}
	if receiverID != "" {
		body["receiver_id"] = receiverID
	}
	return c.doDiscard(http.MethodDelete,
		fmt.Sprintf("/rooms/%s/class/%s", roomID, area), body)
}

// LogEvent appends a structured record to the platform's room log.
func (c *Client) LogEvent(roomID, event string, data map[string]any, receiverID string) error {
	body := map[string]any{
		"event":   event,
		"room_id": roomID,
		"data":    data,
	}
	if receiverID != "" {
		body["receiver_id"] = receiverID
	}
	return c.doDiscard(http.MethodPost, "/logs", body)
}

// RemoveFromRoom evicts a participant. The platform guards user updates
// with ETags, so the current state is fetched first and echoed back in
// If-Match.
func (c *Client) RemoveFromRoom(roomID, participantID string) error {
	resp, err := c.do(http.MethodGet, "/users/"+participantID, nil, nil)
	if err != nil {
		return fmt.Errorf("fetch user %s: %w", participantID, err)
	}
	etag := resp.Header.Get("ETag")
	resp.Body.Close()

	header := http.Header{}
	header.Set("If-Match", etag)
	resp, err = c.do(http.MethodDelete,
		fmt.Sprintf("/users/%s/rooms/%s", participantID, roomID), nil, header)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
