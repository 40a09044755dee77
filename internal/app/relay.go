package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/akarpov/roulette/internal/domain"
)

// Relay forwards opaque handshake payloads between registered clients and
// hands out event streams. The payload is never inspected beyond tagging it
// with the sender and message type.
type Relay struct {
	Registry *Registry
}

// Send appends a signal event to the recipient's channel and returns
// immediately; there is no acknowledgment from the recipient.
//
// The sender is deliberately not required to be the recipient's current
// partner: any registered identity that knows another's id may signal it.
// A hardened deployment would check the peer index here and reject
// cross-room injection.
func (r *Relay) Send(from, to domain.ClientID, typ string, payload json.RawMessage) error {
	if !r.Registry.Known(from) {
		return ErrUnknownIdentity
	}
	q, ok := r.Registry.Channel(to)
	if !ok {
		return ErrUnknownRecipient
	}
	q.Put(domain.NewSignalEvent(from, typ, payload))
	log.Debug().Str("module", "app.relay").
		Str("from", string(from)).
		Str("to", string(to)).
		Str("type", typ).
		Msg("relayed signal")
	return nil
}

// Subscribe returns id's outbound channel for a long-lived consumer. The
// stream never ends on its own; the consumer polls with a bounded wait and
// its lifetime is tied to the transport connection. One live consumer per
// identity is expected; with more than one, events still come out in order
// but each goes to whichever reader polls first.
func (r *Relay) Subscribe(id domain.ClientID) (*Queue, error) {
	q, ok := r.Registry.Channel(id)
	if !ok {
		return nil, ErrUnknownIdentity
	}
	return q, nil
}
