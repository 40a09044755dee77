package app

import (
	"github.com/rs/zerolog/log"

	"github.com/akarpov/roulette/internal/domain"
)

type MatchStatus string

const (
	StatusWaiting MatchStatus = "waiting"
	StatusMatched MatchStatus = "matched"
)

// MatchResult is the synchronous outcome of a matchmaking request. The peer
// identity and assigned role travel only in the matched event, never here.
type MatchResult struct {
	Status MatchStatus
	Room   domain.RoomID
}

// Matchmaker validates identities against the registry and drives the
// room store's pairing operations.
type Matchmaker struct {
	Registry *Registry
	Rooms    *RoomStore
}

func (m *Matchmaker) FindPartner(id domain.ClientID) (MatchResult, error) {
	if !m.Registry.Known(id) {
		return MatchResult{}, ErrUnknownIdentity
	}
	res := m.Rooms.FindPartner(id)
	log.Debug().Str("module", "app.matchmaker").
		Str("client", string(id)).
		Str("status", string(res.Status)).
		Msg("find partner")
	return res, nil
}

// NextPartner drops the current pairing, notifies the former peer and
// immediately re-enters matchmaking for id.
func (m *Matchmaker) NextPartner(id domain.ClientID) (MatchResult, error) {
	if !m.Registry.Known(id) {
		return MatchResult{}, ErrUnknownIdentity
	}
	m.Rooms.Leave(id, true)
	return m.FindPartner(id)
}

// Leave removes id from its room or the waiting slot. The former peer gets
// a peer-left event, the leaver a status event. The leaver's outbound
// channel stays alive so it can be relayed to or match again; only Forget
// tears it down.
func (m *Matchmaker) Leave(id domain.ClientID) error {
	if !m.Registry.Known(id) {
		return ErrUnknownIdentity
	}
	m.Rooms.Leave(id, true)
	m.Registry.Emit(id, domain.NewStatusEvent("Left the chat."))
	return nil
}
