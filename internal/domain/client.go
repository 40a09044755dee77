// Package domain contains entity without logic, just meta-data
package domain

import "github.com/google/uuid"

// ClientID is the opaque token identifying one anonymous participant.
// There is no account behind it; whoever holds the token is the client.
type ClientID string

// NewClientID is a tiny helper to avoid ad-hoc uuid calls in adapters.
func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}
