// Package syncctl kicks off and supervises the five-phase sync state
// machine from outside the reducer: it is the only piece of code allowed
// to decide "ask these peers for their best tip now", translating the
// phase recorded in state.SyncState into which requests go out next.
package syncctl

import (
	"context"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/log"
	"github.com/mina-go/node/state"
)

var logger = log.New("pkg", "syncctl")

// Controller periodically nudges the sync state machine forward by asking
// every ready peer for its best tip while in BestTipAcquire. Outside Idle
// and BestTipAcquire it publishes nothing: ledger sync is driven by the
// dispatcher's scheduler tick, and the staged-ledger and catchup phases
// advance only through the reducer's own follow-ups. Nothing here issues
// the first staged-ledger "base" request or any catchup block request.
type Controller struct {
	publish func(ctx context.Context, a action.Action)
}

func New(publish func(ctx context.Context, a action.Action)) *Controller {
	return &Controller{publish: publish}
}

// Tick is called periodically. In Idle it publishes the transition into
// BestTipAcquire; in BestTipAcquire it sends a best-tip request to every
// ready peer that has not yet answered; in any other phase it does nothing.
func (c *Controller) Tick(ctx context.Context, s *state.State, readyPeers []state.PeerID) {
	if s.Sync.Phase != state.PhaseIdle && s.Sync.Phase != state.PhaseBestTipAcquire {
		return
	}
	if s.Sync.Phase == state.PhaseIdle {
		logger.Info("starting sync: entering best-tip acquisition")
		c.publish(ctx, action.SyncPhaseTransition{From: string(state.PhaseIdle), To: string(state.PhaseBestTipAcquire), Reason: "startup"})
		return
	}
	for _, peer := range readyPeers {
		if _, asked := s.Sync.BestTipCandidates[peer]; asked {
			continue
		}
		c.publish(ctx, action.SyncBestTipRequest{Peer: peer})
	}
}
