package reducer

import (
	"bytes"
	"sort"
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

// bestTipAgreementThreshold is the minimum number of agreeing best-tip
// responses required before the node commits to a target.
const bestTipAgreementThreshold = 2

func reduceBestTipRequest(s *state.State, a action.SyncBestTipRequest, now time.Time) (*state.State, []action.Action) {
	if s.Sync.BestTipCandidates == nil {
		s.Sync.BestTipCandidates = make(map[state.PeerID]*state.BestTipCandidate)
	}
	return s, nil
}

func reduceBestTipResponse(s *state.State, a action.SyncBestTipResponse, now time.Time) (*state.State, []action.Action) {
	if a.Err != nil {
		return s, nil
	}
	if s.Sync.BestTipCandidates == nil {
		s.Sync.BestTipCandidates = make(map[state.PeerID]*state.BestTipCandidate)
	}
	s.Sync.BestTipCandidates[a.Peer] = &state.BestTipCandidate{
		Peer: a.Peer, Height: a.Height, StateHash: a.StateHash,
		RootHash: a.RootHash, DensityVRF: a.DensityVRF,
	}
	if s.Sync.Phase != state.PhaseBestTipAcquire {
		return s, nil
	}
	best := selectBestTip(s.Sync.BestTipCandidates)
	if best == nil {
		return s, nil
	}
	s.Sync.ChosenTip = best
	return s, []action.Action{action.SyncPhaseTransition{
		From: string(state.PhaseBestTipAcquire), To: string(state.PhaseRootLedgerSync),
		Reason: "best tip chosen",
	}}
}

// selectBestTip breaks ties by longest chain first, then highest
// VRF-based density, then the larger root hash, deterministic for equal
// inputs. Within one (height, root) pair, equal-density candidates resolve
// to the lowest peer id. Requires at least bestTipAgreementThreshold
// candidates agreeing on the winning (height, root) pair before returning
// non-nil.
func selectBestTip(candidates map[state.PeerID]*state.BestTipCandidate) *state.BestTipCandidate {
	type key struct {
		height uint64
		root   [32]byte
	}
	counts := make(map[key]int)
	best := make(map[key]*state.BestTipCandidate)
	for _, c := range candidates {
		k := key{c.Height, c.RootHash}
		counts[k]++
		cur := best[k]
		if cur == nil || c.DensityVRF > cur.DensityVRF ||
			(c.DensityVRF == cur.DensityVRF && bytes.Compare(c.Peer[:], cur.Peer[:]) < 0) {
			best[k] = c
		}
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// Map iteration order is randomized per process; sort the keys before
	// the decision loop so the winner is a pure function of the candidate
	// set, not of iteration order. Keys are visited in ascending (height,
	// root) order, so on a tie in height and density the later key, the
	// one with the larger root, wins.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].height != keys[j].height {
			return keys[i].height < keys[j].height
		}
		return bytes.Compare(keys[i].root[:], keys[j].root[:]) < 0
	})

	var winner *state.BestTipCandidate
	for _, k := range keys {
		n := counts[k]
		if n < bestTipAgreementThreshold {
			continue
		}
		cand := best[k]
		if winner == nil ||
			cand.Height > winner.Height ||
			(cand.Height == winner.Height && cand.DensityVRF >= winner.DensityVRF) {
			winner = cand
		}
	}
	return winner
}

func reducePhaseTransition(s *state.State, a action.SyncPhaseTransition, now time.Time) (*state.State, []action.Action) {
	s.Sync.Phase = state.SyncPhase(a.To)
	switch state.SyncPhase(a.To) {
	case state.PhaseRootLedgerSync:
		if s.Sync.ChosenTip != nil {
			s.Sync.Ledger = state.NewLedgerSyncState(s.Sync.ChosenTip.RootHash)
			s.Sync.Ledger.Queue = append(s.Sync.Ledger.Queue, "")
			s.Sync.Ledger.ExpectedHash[""] = s.Sync.ChosenTip.RootHash
		}
	case state.PhaseStagedLedgerReconstruct:
		s.Sync.StagedLedger = &state.StagedLedgerSyncState{Phase: state.StagedBasePending}
	case state.PhaseCatchup:
		if s.Sync.ChosenTip != nil {
			s.Sync.Catchup = &state.CatchupState{Target: s.Sync.ChosenTip.RootHash}
		}
	case state.PhaseBestTipAcquire:
		// Failure recovery: a snarked-ledger failure at any later phase
		// loops back here and restarts best-tip acquisition from scratch.
		s.Sync.Ledger = nil
		s.Sync.BestTipCandidates = make(map[state.PeerID]*state.BestTipCandidate)
		s.Sync.ChosenTip = nil
	}
	return s, nil
}
