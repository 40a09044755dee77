package app

import (
	"context"
	"sync"
	"time"

	"github.com/akarpov/roulette/internal/domain"
)

// Queue is an unbounded FIFO of events owned by exactly one client.
//
// Producers (matchmaking, relay) enqueue without blocking; the single
// consumer (the client's live event stream) blocks on Poll with a bounded
// wait so it can emit transport keep-alives while idle. A wake channel is
// used instead of sync.Cond so Poll can also honor context cancellation.
type Queue struct {
	mu     sync.Mutex
	events []domain.Event
	closed bool

	wake chan struct{}
}

func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Put appends ev to the queue. It never blocks.
// Events put after Close are dropped.
func (q *Queue) Put(ev domain.Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Poll returns the next event, blocking up to wait.
// It returns ok=false when the wait expires, ctx is canceled, or the queue
// is closed and drained; the caller distinguishes those via ctx and Closed.
func (q *Queue) Poll(ctx context.Context, wait time.Duration) (domain.Event, bool) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			ev := q.events[0]
			copy(q.events, q.events[1:])
			q.events[len(q.events)-1] = domain.Event{}
			q.events = q.events[:len(q.events)-1]
			q.mu.Unlock()
			return ev, true
		}
		if q.closed {
			q.mu.Unlock()
			return domain.Event{}, false
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-timer.C:
			return domain.Event{}, false
		case <-ctx.Done():
			return domain.Event{}, false
		}
	}
}

// Close releases a blocked Poll and drops all buffered events.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.events = nil
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len reports the number of buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
