package domain

import "encoding/json"

type EventKind string

const (
	EventStatus   EventKind = "status"
	EventMatched  EventKind = "matched"
	EventSignal   EventKind = "signal"
	EventPeerLeft EventKind = "peer-left"
)

// Event is an immutable tagged value pushed to a client's outbound channel.
// Data is already serialized so transports can frame it without re-encoding.
type Event struct {
	Kind EventKind       `json:"event"`
	Data json.RawMessage `json:"data"`
}

type MatchedPayload struct {
	Room RoomID   `json:"room"`
	Role Role     `json:"role"`
	Peer ClientID `json:"peer"`
}

type SignalPayload struct {
	From    ClientID        `json:"from"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type StatusPayload struct {
	Msg string `json:"msg"`
}

func NewMatchedEvent(room RoomID, role Role, peer ClientID) Event {
	data, _ := json.Marshal(MatchedPayload{Room: room, Role: role, Peer: peer})
	return Event{Kind: EventMatched, Data: data}
}

func NewSignalEvent(from ClientID, typ string, payload json.RawMessage) Event {
	data, _ := json.Marshal(SignalPayload{From: from, Type: typ, Payload: payload})
	return Event{Kind: EventSignal, Data: data}
}

func NewStatusEvent(msg string) Event {
	data, _ := json.Marshal(StatusPayload{Msg: msg})
	return Event{Kind: EventStatus, Data: data}
}

func NewPeerLeftEvent() Event {
	return Event{Kind: EventPeerLeft, Data: json.RawMessage(`{}`)}
}
