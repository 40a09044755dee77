package app

import (
	"testing"

	"github.com/akarpov/roulette/internal/domain"
)

func TestRegistry_RegisterIssuesUniqueIDsWithChannels(t *testing.T) {
	reg := NewRegistry()

	seen := make(map[domain.ClientID]bool)
	for i := 0; i < 100; i++ {
		id := reg.Register()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		if !reg.Known(id) {
			t.Fatalf("Known(%q)=false right after Register", id)
		}
		if _, ok := reg.Channel(id); !ok {
			t.Fatalf("no channel for %q right after Register", id)
		}
	}
}

func TestRegistry_EnsureChannelIdempotent(t *testing.T) {
	reg := NewRegistry()
	id := domain.ClientID("ghost")

	q1 := reg.EnsureChannel(id)
	q2 := reg.EnsureChannel(id)
	if q1 != q2 {
		t.Fatal("EnsureChannel returned a different queue on second call")
	}

	registered := reg.Register()
	if got := reg.EnsureChannel(registered); got != channelOf(t, reg, registered) {
		t.Fatal("EnsureChannel replaced an existing registered channel")
	}
}

func TestRegistry_EmitToUnknownIsNoOp(t *testing.T) {
	reg := NewRegistry()
	// Must not panic or create a channel.
	reg.Emit("nobody", domain.NewPeerLeftEvent())
	if reg.Known("nobody") {
		t.Fatal("Emit created a channel for an unknown id")
	}
}

func TestRegistry_ForgetClosesAndRemoves(t *testing.T) {
	reg := NewRegistry()
	id := reg.Register()
	q := channelOf(t, reg, id)

	reg.Forget(id)
	if reg.Known(id) {
		t.Fatalf("Known(%q)=true after Forget", id)
	}
	if !q.Closed() {
		t.Fatal("channel not closed by Forget")
	}

	// Second Forget is a no-op.
	reg.Forget(id)
}
