package domain

import "github.com/google/uuid"

type RoomID string

// Role is the side a member plays during connection setup.
// The client that was waiting becomes the caller and creates the offer.
type Role string

const (
	RoleCaller Role = "caller"
	RoleCallee Role = "callee"
)

// Room is an active pairing of exactly two clients.
// A room either has both members live or does not exist at all.
type Room struct {
	ID     RoomID
	Caller ClientID
	Callee ClientID
}

func NewRoom(caller, callee ClientID) *Room {
	return &Room{
		ID:     RoomID(uuid.NewString()),
		Caller: caller,
		Callee: callee,
	}
}

// RoleOf reports which side id plays in the room.
func (r *Room) RoleOf(id ClientID) (Role, bool) {
	switch id {
	case r.Caller:
		return RoleCaller, true
	case r.Callee:
		return RoleCallee, true
	}
	return "", false
}

// Other returns the member paired with id.
func (r *Room) Other(id ClientID) (ClientID, bool) {
	switch id {
	case r.Caller:
		return r.Callee, true
	case r.Callee:
		return r.Caller, true
	}
	return "", false
}
