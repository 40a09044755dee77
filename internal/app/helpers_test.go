package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/akarpov/roulette/internal/domain"
)

func unmarshalData(ev domain.Event, v any) error {
	return json.Unmarshal(ev.Data, v)
}

// drainEvents pops everything currently buffered on q.
func drainEvents(t *testing.T, q *Queue) []domain.Event {
	t.Helper()
	var out []domain.Event
	for q.Len() > 0 {
		ev, ok := q.Poll(context.Background(), 10*time.Millisecond)
		if !ok {
			break
		}
		out = append(out, ev)
	}
	return out
}

// channelOf fails the test when id has no channel.
func channelOf(t *testing.T, reg *Registry, id domain.ClientID) *Queue {
	t.Helper()
	q, ok := reg.Channel(id)
	if !ok {
		t.Fatalf("no channel for %q", id)
	}
	return q
}
