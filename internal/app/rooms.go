package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/akarpov/roulette/internal/domain"
)

// Emitter delivers an event to one client's outbound channel.
// *Registry satisfies it; tests substitute recorders.
type Emitter interface {
	Emit(id domain.ClientID, ev domain.Event)
}

// RoomStore owns all pairing state: the single waiting slot, the active
// rooms and the peer/room indexes. One mutex serializes every mutation so
// the indexes can never be observed half-updated; each critical section is
// O(1). Events are emitted inside the critical section, which keeps event
// order consistent with state order per recipient.
type RoomStore struct {
	events Emitter

	mu      sync.Mutex
	waiting domain.ClientID
	rooms   map[domain.RoomID]*domain.Room
	peerOf  map[domain.ClientID]domain.ClientID
	roomOf  map[domain.ClientID]domain.RoomID
}

func NewRoomStore(events Emitter) *RoomStore {
	return &RoomStore{
		events: events,
		rooms:  make(map[domain.RoomID]*domain.Room),
		peerOf: make(map[domain.ClientID]domain.ClientID),
		roomOf: make(map[domain.ClientID]domain.RoomID),
	}
}

// FindPartner pairs id with the waiting client, or parks id in the waiting
// slot. A client already in a room leaves it first (without notifying the
// old peer), so calling it while paired means "find me a new partner".
// Re-requesting while already waiting is a no-op that keeps waiting.
func (s *RoomStore) FindPartner(id domain.ClientID) MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roomOf[id]; ok {
		s.leaveLocked(id, false)
	}

	if other := s.waiting; other != "" && other != id {
		s.waiting = ""
		room := domain.NewRoom(other, id)
		s.rooms[room.ID] = room
		s.peerOf[other] = id
		s.peerOf[id] = other
		s.roomOf[other] = room.ID
		s.roomOf[id] = room.ID
		// Waiting side becomes the caller and will create the offer.
		s.events.Emit(other, domain.NewMatchedEvent(room.ID, domain.RoleCaller, id))
		s.events.Emit(id, domain.NewMatchedEvent(room.ID, domain.RoleCallee, other))
		log.Info().Str("module", "app.rooms").
			Str("room", string(room.ID)).
			Str("caller", string(other)).
			Str("callee", string(id)).
			Msg("matched pair")
		return MatchResult{Status: StatusMatched, Room: room.ID}
	}

	s.waiting = id
	s.events.Emit(id, domain.NewStatusEvent("Searching for a partner…"))
	return MatchResult{Status: StatusWaiting}
}

// Leave removes id from its room, tearing the room and both index
// directions down in one step; a room is never left with a single member.
// With notifyPeer the former partner gets exactly one peer-left event.
// Leaving while waiting clears the slot. Idempotent: a second call for the
// same id is a no-op.
func (s *RoomStore) Leave(id domain.ClientID, notifyPeer bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked(id, notifyPeer)
}

func (s *RoomStore) leaveLocked(id domain.ClientID, notifyPeer bool) {
	rid, ok := s.roomOf[id]
	if !ok {
		if s.waiting == id {
			s.waiting = ""
		}
		return
	}

	peer := s.peerOf[id]
	delete(s.peerOf, id)
	delete(s.peerOf, peer)
	delete(s.roomOf, id)
	delete(s.roomOf, peer)
	delete(s.rooms, rid)

	if notifyPeer && peer != "" {
		s.events.Emit(peer, domain.NewPeerLeftEvent())
	}
	log.Info().Str("module", "app.rooms").
		Str("room", string(rid)).
		Str("client", string(id)).
		Bool("notified_peer", notifyPeer && peer != "").
		Msg("left room")
}

// PeerOf returns the client currently paired with id.
func (s *RoomStore) PeerOf(id domain.ClientID) (domain.ClientID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	peer, ok := s.peerOf[id]
	return peer, ok
}

// RoomOf returns the id of the room the client is currently in.
func (s *RoomStore) RoomOf(id domain.ClientID) (domain.RoomID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rid, ok := s.roomOf[id]
	return rid, ok
}

// Waiting returns the current waiting-slot occupant, if any.
func (s *RoomStore) Waiting() (domain.ClientID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting, s.waiting != ""
}

// ActiveRooms reports the number of live rooms.
func (s *RoomStore) ActiveRooms() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
