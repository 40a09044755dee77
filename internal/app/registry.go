package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/akarpov/roulette/internal/domain"
)

// Registry issues anonymous client identities and owns the outbound event
// channel of each one. It is the only component that maps id -> channel.
type Registry struct {
	mu       sync.RWMutex
	channels map[domain.ClientID]*Queue
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[domain.ClientID]*Queue)}
}

// Register creates a fresh identity together with its outbound channel.
func (r *Registry) Register() domain.ClientID {
	id := domain.NewClientID()
	r.mu.Lock()
	r.channels[id] = NewQueue()
	r.mu.Unlock()
	log.Info().Str("module", "app.registry").Str("client", string(id)).Msg("registered client")
	return id
}

// Known reports whether id has been registered and not yet forgotten.
func (r *Registry) Known(id domain.ClientID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.channels[id]
	return ok
}

// Channel returns the outbound channel of id.
func (r *Registry) Channel(id domain.ClientID) (*Queue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.channels[id]
	return q, ok
}

// EnsureChannel returns id's channel, creating one if needed. Idempotent;
// used where an identity may need to receive events before the public
// registration path has run.
func (r *Registry) EnsureChannel(id domain.ClientID) *Queue {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.channels[id]; ok {
		return q
	}
	q := NewQueue()
	r.channels[id] = q
	return q
}

// Emit appends ev to id's channel if one exists. Delivery is at-most-once
// and fire-and-forget: nobody acknowledges, and an id without a channel
// silently receives nothing.
func (r *Registry) Emit(id domain.ClientID, ev domain.Event) {
	r.mu.RLock()
	q, ok := r.channels[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	q.Put(ev)
}

// Forget closes and removes id's channel, releasing any blocked reader.
// After Forget the identity is gone for good: relays to it fail and the id
// can no longer match.
func (r *Registry) Forget(id domain.ClientID) {
	r.mu.Lock()
	q, ok := r.channels[id]
	delete(r.channels, id)
	r.mu.Unlock()
	if ok {
		q.Close()
		log.Info().Str("module", "app.registry").Str("client", string(id)).Msg("forgot client")
	}
}
