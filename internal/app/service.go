// Package app holds the in-memory matchmaking and signaling core: identity
// registry, waiting slot, rooms and per-client event channels. All state
// lives in this process and is lost on restart.
package app

import (
	"encoding/json"

	"github.com/akarpov/roulette/internal/domain"
)

// Service is the boundary facade the transports talk to. It composes the
// registry, room store, matchmaker and relay into the operation set of the
// signaling core.
type Service struct {
	Registry   *Registry
	Rooms      *RoomStore
	Matchmaker *Matchmaker
	Relay      *Relay
}

func NewService() *Service {
	reg := NewRegistry()
	rooms := NewRoomStore(reg)
	return &Service{
		Registry:   reg,
		Rooms:      rooms,
		Matchmaker: &Matchmaker{Registry: reg, Rooms: rooms},
		Relay:      &Relay{Registry: reg},
	}
}

func (s *Service) Register() domain.ClientID {
	return s.Registry.Register()
}

func (s *Service) FindPartner(id domain.ClientID) (MatchResult, error) {
	return s.Matchmaker.FindPartner(id)
}

func (s *Service) NextPartner(id domain.ClientID) (MatchResult, error) {
	return s.Matchmaker.NextPartner(id)
}

func (s *Service) Leave(id domain.ClientID) error {
	return s.Matchmaker.Leave(id)
}

func (s *Service) Send(from, to domain.ClientID, typ string, payload json.RawMessage) error {
	return s.Relay.Send(from, to, typ, payload)
}

func (s *Service) Subscribe(id domain.ClientID) (*Queue, error) {
	return s.Relay.Subscribe(id)
}

// Forget erases an identity completely: waiting slot, room, peer index and
// outbound channel. Embedders call it when a client is gone for good; plain
// Leave keeps the channel alive.
func (s *Service) Forget(id domain.ClientID) {
	s.Rooms.Leave(id, true)
	s.Registry.Forget(id)
}
