package reducer

import (
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

func reduceSlotWon(s *state.State, a action.BlockProducerSlotWon, now time.Time) (*state.State, []action.Action) {
	logger.Info("won slot", "slot", a.Slot)
	return s, nil
}

func reduceProofReady(s *state.State, a action.BlockProducerProofReady, now time.Time) (*state.State, []action.Action) {
	return s, []action.Action{action.BlockProducerBroadcast{Slot: a.Slot, Block: a.Block}}
}

func reduceProofFailed(s *state.State, a action.BlockProducerProofFailed, now time.Time) (*state.State, []action.Action) {
	logger.Warn("prover failed, dropping candidate for slot", "slot", a.Slot, "err", a.Err)
	return s, nil
}

func reduceBroadcast(s *state.State, a action.BlockProducerBroadcast, now time.Time) (*state.State, []action.Action) {
	// A locally produced block always builds directly on our current tip,
	// so unlike catchup (which can jump the frontier forward by many
	// blocks at once) it extends it by exactly one.
	s.Sync.FrontierHeight++
	return s, nil
}

func reduceExternalTimerFired(s *state.State, a action.ExternalTimerFired, now time.Time) (*state.State, []action.Action) {
	return reduceRPCTimeout(s, action.P2PRPCTimeout{Peer: a.Peer, RPCID: a.RPCID}, now)
}
