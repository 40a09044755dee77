package app

import "errors"

var (
	// ErrUnknownIdentity is returned when an operation references a client id
	// that was never registered or has already been forgotten.
	ErrUnknownIdentity = errors.New("unknown identity")
	// ErrUnknownRecipient is returned when a relay target has no live
	// outbound channel. The sender should treat this as "peer vanished".
	ErrUnknownRecipient = errors.New("unknown recipient")
)
