package game

import (
	"strings"
	"sync"

	"github.com/tandemly/wordpair/internal"
)

// --- Chat recorder ---

// chatCall records one outbound effect, flattened so assertions can match
// on any subset of fields.
type chatCall struct {
	method   string
	roomID   string
	receiver string
	text     string
	color    string
	cmd      internal.ClientCommand
	element  string
	attr     string
	value    string
	event    string
	data     map[string]any
}

type recorderChat struct {
	mu    sync.Mutex
	calls []chatCall
}

func (r *recorderChat) record(call chatCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return nil
}

func (r *recorderChat) JoinRoom(roomID string) error {
	return r.record(chatCall{method: "JoinRoom", roomID: roomID})
}

func (r *recorderChat) SendText(roomID, text, color string) error {
	return r.record(chatCall{method: "SendText", roomID: roomID, text: text, color: color})
}

func (r *recorderChat) SendTextTo(roomID, receiverID, text, color string) error {
	return r.record(chatCall{method: "SendTextTo", roomID: roomID, receiver: receiverID, text: text, color: color})
}

func (r *recorderChat) SendCommand(roomID string, cmd internal.ClientCommand) error {
	return r.record(chatCall{method: "SendCommand", roomID: roomID, cmd: cmd})
}

func (r *recorderChat) SendCommandTo(roomID, receiverID string, cmd internal.ClientCommand) error {
	return r.record(chatCall{method: "SendCommandTo", roomID: roomID, receiver: receiverID, cmd: cmd})
}

func (r *recorderChat) SetRoomText(roomID, element, text string) error {
	return r.record(chatCall{method: "SetRoomText", roomID: roomID, element: element, text: text})
}

func (r *recorderChat) SetAttribute(roomID, elementID, attribute, value, receiverID string) error {
	return r.record(chatCall{
		method: "SetAttribute", roomID: roomID, element: elementID,
		attr: attribute, value: value, receiver: receiverID,
	})
}

func (r *recorderChat) AddClass(roomID, area, class, receiverID string) error {
	return r.record(chatCall{method: "AddClass", roomID: roomID, element: area, value: class, receiver: receiverID})
}

func (r *recorderChat) RemoveClass(roomID, area, class, receiverID string) error {
	return r.record(chatCall{method: "RemoveClass", roomID: roomID, element: area, value: class, receiver: receiverID})
}

func (r *recorderChat) LogEvent(roomID, event string, data map[string]any, receiverID string) error {
	return r.record(chatCall{method: "LogEvent", roomID: roomID, event: event, data: data, receiver: receiverID})
}

func (r *recorderChat) RemoveFromRoom(roomID, participantID string) error {
	return r.record(chatCall{method: "RemoveFromRoom", roomID: roomID, receiver: participantID})
}

// snapshot copies the call log for race-free inspection.
func (r *recorderChat) snapshot() []chatCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]chatCall(nil), r.calls...)
}

func (r *recorderChat) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// byMethod filters the call log.
func (r *recorderChat) byMethod(method string) []chatCall {
	var out []chatCall
	for _, call := range r.snapshot() {
		if call.method == method {
			out = append(out, call)
		}
	}
	return out
}

// textsContaining returns text deliveries whose body contains substr.
func (r *recorderChat) textsContaining(substr string) []chatCall {
	var out []chatCall
	for _, call := range r.snapshot() {
		if (call.method == "SendText" || call.method == "SendTextTo") &&
			strings.Contains(call.text, substr) {
			out = append(out, call)
		}
	}
	return out
}

// commands returns the pushed client commands with the given verb.
func (r *recorderChat) commands(verb string) []chatCall {
	var out []chatCall
	for _, call := range r.snapshot() {
		if (call.method == "SendCommand" || call.method == "SendCommandTo") &&
			call.cmd.Command == verb {
			out = append(out, call)
		}
	}
	return out
}

// --- Limiter fakes ---

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }
