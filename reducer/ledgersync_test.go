package reducer

import (
	"testing"
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/ledger"
	"github.com/mina-go/node/state"
)

func newSyncingState(root [32]byte) *state.State {
	s := state.NewState()
	s.Sync.Phase = state.PhaseRootLedgerSync
	s.Sync.Ledger = state.NewLedgerSyncState(root)
	s.Sync.Ledger.Queue = append(s.Sync.Ledger.Queue, "")
	s.Sync.Ledger.ExpectedHash[""] = root
	return s
}

func TestReduceLedgerQueryInitMovesAddrFromQueueToPending(t *testing.T) {
	root := [32]byte{1}
	s := newSyncingState(root)
	peer := state.PeerID{9}

	s, _ = reduceLedgerQueryInit(s, action.SyncLedgerQueryInit{Peer: peer, Addr: []byte(""), RPCID: 1}, time.Now())

	if len(s.Sync.Ledger.Queue) != 0 {
		t.Fatalf("expected queue to be empty after init, got %v", s.Sync.Ledger.Queue)
	}
	attempts := s.Sync.Ledger.Pending[""]
	if attempts == nil || attempts[peer] == nil {
		t.Fatalf("expected a pending attempt for root addr by peer")
	}
	if attempts[peer].Status != state.AttemptPending {
		t.Fatalf("expected attempt status pending, got %v", attempts[peer].Status)
	}
}

func TestReduceLedgerQueryErrorRequeuesOnlyWhenAllAttemptsErrored(t *testing.T) {
	root := [32]byte{1}
	s := newSyncingState(root)
	p1, p2 := state.PeerID{1}, state.PeerID{2}

	s, _ = reduceLedgerQueryInit(s, action.SyncLedgerQueryInit{Peer: p1, Addr: []byte("")}, time.Now())
	s.Sync.Ledger.Pending[""][p2] = &state.LedgerQueryAttempt{Peer: p2, Status: state.AttemptPending}

	s, _ = reduceLedgerQueryError(s, action.SyncLedgerQueryError{Peer: p1, Addr: []byte("")}, time.Now())
	if len(s.Sync.Ledger.Queue) != 0 {
		t.Fatalf("addr should stay pending while p2's attempt is still live, got queue %v", s.Sync.Ledger.Queue)
	}

	s, _ = reduceLedgerQueryError(s, action.SyncLedgerQueryError{Peer: p2, Addr: []byte("")}, time.Now())
	if len(s.Sync.Ledger.Queue) != 1 || s.Sync.Ledger.Queue[0] != "" {
		t.Fatalf("addr should be requeued once every attempt has errored, got queue %v", s.Sync.Ledger.Queue)
	}
	if _, stillPending := s.Sync.Ledger.Pending[""]; stillPending {
		t.Fatalf("pending entry should be cleared once requeued")
	}
}

func TestReduceLedgerQueryResponseRejectsHashMismatch(t *testing.T) {
	root := [32]byte{1}
	s := newSyncingState(root)
	peer := state.PeerID{3}
	s, _ = reduceLedgerQueryInit(s, action.SyncLedgerQueryInit{Peer: peer, Addr: []byte("")}, time.Now())

	var wrongLeft, wrongRight [32]byte
	wrongLeft[0] = 0xFF

	s, _ = reduceLedgerQueryResponse(s, action.SyncLedgerQueryResponse{
		Peer: peer, Addr: []byte(""), Leaf: false,
		Children: [2][32]byte{wrongLeft, wrongRight},
	}, time.Now())

	if _, stillPending := s.Sync.Ledger.Pending[""]; stillPending {
		t.Fatalf("a hash mismatch should be handled as a query error, not left pending")
	}
	if len(s.Sync.Ledger.Queue) != 1 {
		t.Fatalf("a hash mismatch on the only attempt should requeue the address")
	}
}

func TestReduceLedgerQueryResponseAcceptsValidInternalNodeAndEnqueuesChildren(t *testing.T) {
	root := [32]byte{1}
	s := newSyncingState(root)
	peer := state.PeerID{4}
	s, _ = reduceLedgerQueryInit(s, action.SyncLedgerQueryInit{Peer: peer, Addr: []byte("")}, time.Now())

	left := [32]byte{0xAA}
	right := [32]byte{0xBB}
	root = ledger.HashCombine(left, right, 0)
	s.Sync.Ledger.ExpectedHash[""] = root

	s, followups := reduceLedgerQueryResponse(s, action.SyncLedgerQueryResponse{
		Peer: peer, Addr: []byte(""), Leaf: false,
		Children: [2][32]byte{left, right},
	}, time.Now())

	if len(followups) != 0 {
		t.Fatalf("expected no phase transition while children remain unfetched, got %v", followups)
	}
	if len(s.Sync.Ledger.Queue) != 2 {
		t.Fatalf("expected both children enqueued, got %v", s.Sync.Ledger.Queue)
	}
	if s.Sync.Ledger.NumHashesAccepted != 1 {
		t.Fatalf("expected NumHashesAccepted incremented, got %d", s.Sync.Ledger.NumHashesAccepted)
	}
}

func TestReduceLedgerQueryResponseLeafAcceptsAndCompletesSync(t *testing.T) {
	accounts := [][]byte{[]byte("account-one")}
	hash, ok := ledger.HashAccountBundle(accounts)
	if !ok {
		t.Fatalf("expected HashAccountBundle to succeed for a non-empty bundle")
	}

	s := newSyncingState(hash)
	peer := state.PeerID{5}
	s, _ = reduceLedgerQueryInit(s, action.SyncLedgerQueryInit{Peer: peer, Addr: []byte(""), Leaf: true}, time.Now())

	s, followups := reduceLedgerQueryResponse(s, action.SyncLedgerQueryResponse{
		Peer: peer, Addr: []byte(""), Leaf: true, Accounts: accounts,
	}, time.Now())

	if !ledgerSyncComplete(s.Sync.Ledger) {
		t.Fatalf("expected ledger sync to be complete once the only address resolves")
	}
	if len(followups) != 1 {
		t.Fatalf("expected exactly one phase-transition followup, got %v", followups)
	}
	if tr, ok := followups[0].(action.SyncPhaseTransition); !ok || tr.To != string(state.PhaseStagedLedgerReconstruct) {
		t.Fatalf("expected transition to StagedLedgerReconstruct, got %v", followups[0])
	}
}

func TestRequeueAbandonedAddressesOrdersQueueByAddr(t *testing.T) {
	root := [32]byte{1}
	peer := state.PeerID{7}

	for i := 0; i < 20; i++ {
		s := newSyncingState(root)
		ls := s.Sync.Ledger
		ls.Queue = nil
		for _, addr := range []state.AddrKey{"c", "a", "b"} {
			ls.Pending[addr] = map[state.PeerID]*state.LedgerQueryAttempt{
				peer: {Peer: peer, Status: state.AttemptPending},
			}
		}

		requeueAbandonedAddresses(ls, peer)

		if len(ls.Queue) != 3 || ls.Queue[0] != "a" || ls.Queue[1] != "b" || ls.Queue[2] != "c" {
			t.Fatalf("expected queue re-entered in sorted addr order every run, got %v", ls.Queue)
		}
	}
}

func TestSchedulerTickDispatchesQueuedAddressOnceThenStopsWhenDrained(t *testing.T) {
	root := [32]byte{1}
	s := newSyncingState(root)
	peer := state.PeerID{6}

	actions := SchedulerTick(s, []state.PeerID{peer}, time.Now())
	if len(actions) != 1 {
		t.Fatalf("expected exactly one dispatch for a single queued address, got %d", len(actions))
	}
	init, ok := actions[0].(action.SyncLedgerQueryInit)
	if !ok || init.Peer != peer {
		t.Fatalf("expected a SyncLedgerQueryInit for peer, got %v", actions[0])
	}

	// Once the queue is empty, ticking again should produce nothing.
	s, _ = reduceLedgerQueryInit(s, init, time.Now())
	if more := SchedulerTick(s, []state.PeerID{peer}, time.Now()); len(more) != 0 {
		t.Fatalf("expected no further dispatch once the queue is drained, got %v", more)
	}
}
