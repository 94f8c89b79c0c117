// Package eventbus is a small typed pub/sub mailbox, the same shape as the
// node's event.TypeMux: a single process-wide channel of Action values that
// every service (peer transport, timers, provers) writes follow-up events
// into and the dispatcher drains single-threaded.
package eventbus

import (
	"context"

	"github.com/mina-go/node/action"
)

// Bus is a bounded, single-consumer queue of actions. It is intentionally
// not a broadcast mux: the reducer is the only subscriber, so a plain
// channel is enough and avoids the subscription bookkeeping a full mux
// would need here.
type Bus struct {
	ch chan action.Action
}

// New creates a Bus with the given mailbox capacity. A full mailbox makes
// Publish block, applying natural backpressure to whatever service is
// producing events fastest.
func New(capacity int) *Bus {
	return &Bus{ch: make(chan action.Action, capacity)}
}

// Publish enqueues a, blocking while the mailbox is full; if ctx ends
// first, a is dropped without being enqueued.
func (b *Bus) Publish(ctx context.Context, a action.Action) {
	select {
	case b.ch <- a:
	case <-ctx.Done():
	}
}

// PublishAll enqueues every action in order; used by reducer follow-ups,
// which must be delivered in the order they were produced.
func (b *Bus) PublishAll(ctx context.Context, actions []action.Action) {
	for _, a := range actions {
		b.Publish(ctx, a)
	}
}

// Next blocks for the next queued action, or returns ok=false if ctx ends
// first.
func (b *Bus) Next(ctx context.Context) (action.Action, bool) {
	select {
	case a := <-b.ch:
		return a, true
	case <-ctx.Done():
		return nil, false
	}
}
