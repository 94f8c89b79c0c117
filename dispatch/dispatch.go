// Package dispatch runs the reducer loop: pull one action off the event
// bus, fold it through reducer.Reduce, hand any follow-up actions to the
// Effects side-effect sink, and repeat. It is deliberately single
// goroutine, mirroring the single-threaded core loop this whole design is
// built around; every blocking operation (sending bytes on a connection,
// writing to disk) happens in a different goroutine that reports back by
// publishing its own follow-up action.
package dispatch

import (
	"context"
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/eventbus"
	"github.com/mina-go/node/log"
	"github.com/mina-go/node/reducer"
	"github.com/mina-go/node/state"
	"github.com/mina-go/node/status"
)

var logger = log.New("pkg", "dispatch")

// Effects is the side-effect sink the dispatcher hands every follow-up
// action to. Concrete implementations live in the peer and producer
// packages, translating a given action into the corresponding network
// write, timer registration, or prover invocation. Effects.Perform must
// never block the dispatch loop for longer than it takes to hand the work
// to another goroutine.
type Effects interface {
	Perform(ctx context.Context, a action.Action)
}

// Clock abstracts wall-clock access so tests can supply a deterministic
// sequence of timestamps instead of time.Now.
type Clock func() time.Time

// Dispatcher owns the single State value and drives it forward one action
// at a time.
type Dispatcher struct {
	bus      *eventbus.Bus
	state    *state.State
	effects  Effects
	clock    Clock
	counters *status.Counters

	availablePeers func() []state.PeerID
}

// New constructs a Dispatcher. availablePeers is polled on every tick to
// let the ledger-sync scheduler pair free peers with queued work without
// the reducer itself reaching into peer registry internals. counters
// receives one Incr per dispatched action that carries a non-nil error,
// classified via status.Classify, feeding the error-class scoreboard of §7
// without the reducer itself needing to know about it.
func New(bus *eventbus.Bus, effects Effects, availablePeers func() []state.PeerID, counters *status.Counters) *Dispatcher {
	return &Dispatcher{
		bus:            bus,
		state:          state.NewState(),
		effects:        effects,
		clock:          time.Now,
		counters:       counters,
		availablePeers: availablePeers,
	}
}

// State returns the live state value for read-only inspection (status
// reporting, tests). Callers must not mutate it.
func (d *Dispatcher) State() *state.State { return d.state }

// Run drains the bus until ctx is cancelled or the reducer marks the node
// shutdown-pending.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		a, ok := d.bus.Next(ctx)
		if !ok {
			return
		}
		d.step(ctx, a)
		if d.state.ShutdownPending {
			logger.Info("shutdown pending, stopping dispatch loop", "reason", d.state.ShutdownReason)
			return
		}
	}
}

func (d *Dispatcher) step(ctx context.Context, a action.Action) {
	if d.counters != nil {
		if e, ok := a.(action.Erroring); ok {
			if err := e.ErrVal(); err != nil {
				d.counters.Incr(status.Classify(err))
			}
		}
	}

	now := d.clock()
	newState, followups := reducer.Reduce(d.state, a, now)
	d.state = newState

	if d.availablePeers != nil {
		followups = append(followups, reducer.SchedulerTick(d.state, d.availablePeers(), now)...)
	}

	for _, f := range followups {
		// §4.1: Enabled is the single source of truth for a protocol
		// precondition. A follow-up whose precondition no longer holds at
		// dispatch time (peer over capacity, still in reconnect backoff,
		// RPC no longer pending) must not reach a service call, even
		// though it still gets published so its own reduction can run its
		// course (most such actions are no-ops once re-reduced, which is
		// how the reducer's own bookkeeping stays consistent).
		if f.Enabled(d.state, now) {
			d.effects.Perform(ctx, f)
		} else {
			logger.Debug("dropping disabled follow-up before dispatch", "kind", f.Kind())
		}
	}
	d.bus.PublishAll(ctx, followups)
}
