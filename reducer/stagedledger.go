// Staged-ledger reconstructor: a streaming-RPC state machine that never
// lets the sender volunteer the next part. Only responses from the pinned
// sender are accepted; each accepted response that does not finish the
// reconstruction is followed by a request for the next part from that
// same peer.
package reducer

import (
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

func reduceStagedPartRequest(s *state.State, a action.SyncStagedLedgerPartRequest, now time.Time) (*state.State, []action.Action) {
	sl := s.Sync.StagedLedger
	if sl == nil {
		return s, nil
	}
	sl.Sender = a.Peer
	if sl.Phase == state.StagedBaseSuccess && a.Part == "scan_state_base" {
		sl.Phase = state.StagedScanStateBasePending
	}
	return s, nil
}

func reduceStagedPartResponse(s *state.State, a action.SyncStagedLedgerPartResponse, now time.Time) (*state.State, []action.Action) {
	sl := s.Sync.StagedLedger
	if sl == nil || a.Peer != sl.Sender {
		return s, nil
	}
	if a.Err != nil {
		// Stay in the same phase. No retry is issued from here; a later
		// SyncStagedLedgerPartRequest re-pins Sender to whichever peer it
		// names.
		return s, nil
	}

	switch sl.Phase {
	case state.StagedBasePending:
		if a.Part != "base" {
			return s, nil
		}
		sl.Phase = state.StagedBaseSuccess
		sl.BaseHash = stagedLedgerHashFromBase(a.Data)
		return s, []action.Action{action.SyncStagedLedgerPartRequest{Peer: a.Peer, Part: "scan_state_base"}}

	case state.StagedScanStateBasePending:
		if a.Part != "scan_state_base" {
			return s, nil
		}
		sl.Phase = state.StagedScanStateBaseSuccess
		sl.TreesExpected = treeCountFromScanStateBase(a.Data)
		if sl.TreesExpected == 0 {
			sl.Phase = state.StagedSuccess
			s.Sync.RootStagedLedgerHash = sl.BaseHash
			return s, []action.Action{action.SyncPhaseTransition{
				From: string(state.PhaseStagedLedgerReconstruct), To: string(state.PhaseCatchup),
				Reason: "staged ledger reconstructed with no pending trees",
			}}
		}
		sl.Phase = state.StagedTreesPending
		return s, []action.Action{action.SyncStagedLedgerPartRequest{Peer: a.Peer, Part: "tree", Index: 0}}

	case state.StagedTreesPending:
		if a.Part != "tree" || a.Index != len(sl.TreesReceived) {
			return s, nil
		}
		sl.TreesReceived = append(sl.TreesReceived, a.Data)
		if len(sl.TreesReceived) == sl.TreesExpected {
			sl.Phase = state.StagedSuccess
			s.Sync.RootStagedLedgerHash = sl.BaseHash
			return s, []action.Action{action.SyncPhaseTransition{
				From: string(state.PhaseStagedLedgerReconstruct), To: string(state.PhaseCatchup),
				Reason: "staged ledger reconstructed",
			}}
		}
		return s, []action.Action{action.SyncStagedLedgerPartRequest{Peer: a.Peer, Part: "tree", Index: len(sl.TreesReceived)}}
	}
	return s, nil
}

// stagedLedgerHashFromBase decodes the staged-ledger hash the sender commits
// to as the first 32 bytes of the "base" part, following the same
// leading-field convention as treeCountFromScanStateBase.
func stagedLedgerHashFromBase(data []byte) [32]byte {
	var h [32]byte
	copy(h[:], data)
	return h
}

// treeCountFromScanStateBase decodes the leading byte of the scan-state
// base part, which the sender encodes as the number of scan-state trees
// that must follow.
func treeCountFromScanStateBase(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	return int(data[0])
}
