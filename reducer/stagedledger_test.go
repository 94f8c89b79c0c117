package reducer

import (
	"testing"
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

func newStagedSyncingState(sender state.PeerID) *state.State {
	s := state.NewState()
	s.Sync.Phase = state.PhaseStagedLedgerReconstruct
	s.Sync.StagedLedger = &state.StagedLedgerSyncState{Phase: state.StagedBasePending, Sender: sender}
	return s
}

func TestStagedLedgerIgnoresResponseFromNonSender(t *testing.T) {
	peer := state.PeerID{1}
	other := state.PeerID{2}
	s := newStagedSyncingState(peer)

	s, followups := reduceStagedPartResponse(s, action.SyncStagedLedgerPartResponse{
		Peer: other, Part: "base",
	}, time.Now())

	if s.Sync.StagedLedger.Phase != state.StagedBasePending {
		t.Fatalf("a response from a non-sender peer must never advance the phase, got %v", s.Sync.StagedLedger.Phase)
	}
	if len(followups) != 0 {
		t.Fatalf("expected no followups for a non-sender response")
	}
}

func TestStagedLedgerAdvancesBaseToScanStateBase(t *testing.T) {
	peer := state.PeerID{1}
	s := newStagedSyncingState(peer)

	wantHash := [32]byte{9, 9, 9}
	s, followups := reduceStagedPartResponse(s, action.SyncStagedLedgerPartResponse{
		Peer: peer, Part: "base", Data: wantHash[:],
	}, time.Now())

	if s.Sync.StagedLedger.Phase != state.StagedBaseSuccess {
		t.Fatalf("expected phase BaseSuccess immediately after the base part, got %v", s.Sync.StagedLedger.Phase)
	}
	if s.Sync.StagedLedger.BaseHash != wantHash {
		t.Fatalf("expected BaseHash recorded from the base part, got %x", s.Sync.StagedLedger.BaseHash)
	}
	if len(followups) != 1 {
		t.Fatalf("expected exactly one next-part request, got %v", followups)
	}
	req, ok := followups[0].(action.SyncStagedLedgerPartRequest)
	if !ok || req.Peer != peer || req.Part != "scan_state_base" {
		t.Fatalf("expected a scan_state_base request pinned to the sender, got %v", followups[0])
	}

	// Dispatching that request is what actually advances the phase machine
	// on to ScanStateBasePending.
	s, _ = reduceStagedPartRequest(s, req, time.Now())
	if s.Sync.StagedLedger.Phase != state.StagedScanStateBasePending {
		t.Fatalf("expected phase ScanStateBasePending once the next request was dispatched, got %v", s.Sync.StagedLedger.Phase)
	}
}

func TestStagedLedgerSkipsTreesWhenNoneExpected(t *testing.T) {
	peer := state.PeerID{1}
	s := newStagedSyncingState(peer)
	s.Sync.StagedLedger.Phase = state.StagedScanStateBasePending
	s.Sync.StagedLedger.BaseHash = [32]byte{7}

	s, followups := reduceStagedPartResponse(s, action.SyncStagedLedgerPartResponse{
		Peer: peer, Part: "scan_state_base", Data: []byte{0},
	}, time.Now())

	if s.Sync.StagedLedger.Phase != state.StagedSuccess {
		t.Fatalf("expected immediate success with zero trees expected, got %v", s.Sync.StagedLedger.Phase)
	}
	if s.Sync.RootStagedLedgerHash != [32]byte{7} {
		t.Fatalf("expected RootStagedLedgerHash promoted from the staged ledger's BaseHash, got %x", s.Sync.RootStagedLedgerHash)
	}
	if len(followups) != 1 {
		t.Fatalf("expected a single phase-transition followup, got %v", followups)
	}
	tr, ok := followups[0].(action.SyncPhaseTransition)
	if !ok || tr.To != string(state.PhaseCatchup) {
		t.Fatalf("expected transition to Catchup, got %v", followups[0])
	}
}

func TestStagedLedgerWalksTreesInOrderThenCompletes(t *testing.T) {
	peer := state.PeerID{1}
	s := newStagedSyncingState(peer)
	s.Sync.StagedLedger.Phase = state.StagedScanStateBasePending

	s, followups := reduceStagedPartResponse(s, action.SyncStagedLedgerPartResponse{
		Peer: peer, Part: "scan_state_base", Data: []byte{2},
	}, time.Now())
	if s.Sync.StagedLedger.Phase != state.StagedTreesPending || s.Sync.StagedLedger.TreesExpected != 2 {
		t.Fatalf("expected TreesPending with 2 trees expected, got phase=%v expected=%d", s.Sync.StagedLedger.Phase, s.Sync.StagedLedger.TreesExpected)
	}
	req := followups[0].(action.SyncStagedLedgerPartRequest)
	if req.Index != 0 {
		t.Fatalf("expected first tree request at index 0, got %d", req.Index)
	}

	// An out-of-order tree index must be ignored.
	s, followups = reduceStagedPartResponse(s, action.SyncStagedLedgerPartResponse{
		Peer: peer, Part: "tree", Index: 1, Data: []byte("bad-order"),
	}, time.Now())
	if len(s.Sync.StagedLedger.TreesReceived) != 0 || len(followups) != 0 {
		t.Fatalf("an out-of-order tree part must be dropped, got received=%v followups=%v", s.Sync.StagedLedger.TreesReceived, followups)
	}

	s, followups = reduceStagedPartResponse(s, action.SyncStagedLedgerPartResponse{
		Peer: peer, Part: "tree", Index: 0, Data: []byte("tree-0"),
	}, time.Now())
	req = followups[0].(action.SyncStagedLedgerPartRequest)
	if req.Index != 1 {
		t.Fatalf("expected the second tree request at index 1, got %d", req.Index)
	}

	s, followups = reduceStagedPartResponse(s, action.SyncStagedLedgerPartResponse{
		Peer: peer, Part: "tree", Index: 1, Data: []byte("tree-1"),
	}, time.Now())
	if s.Sync.StagedLedger.Phase != state.StagedSuccess {
		t.Fatalf("expected success once every expected tree has arrived, got %v", s.Sync.StagedLedger.Phase)
	}
	tr, ok := followups[0].(action.SyncPhaseTransition)
	if !ok || tr.To != string(state.PhaseCatchup) {
		t.Fatalf("expected transition to Catchup, got %v", followups[0])
	}
}
