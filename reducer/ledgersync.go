// Snarked-ledger fetcher scheduler, the hard algorithmic core
// of the sync engine. Directly adapted from the node's core/state/sync.go
// + trie.Sync BFS shape: a FIFO queue of (address, expected hash) pairs,
// a pending-attempts table keyed by address then peer, and validation that
// re-hashes every response against the already-validated parent hash before
// it is ever trusted.
package reducer

import (
	"errors"
	"sort"
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/common"
	"github.com/mina-go/node/ledger"
	"github.com/mina-go/node/params"
	"github.com/mina-go/node/state"
)

// isLeafBundleAddr reports whether addr should be fetched as a
// WhatContents bundle instead of descending further with WhatChildHashes
//.
func isLeafBundleAddr(addr state.AddrKey) bool {
	return len(addr) >= params.LedgerDepth-params.LeafBundlingK
}

// requeueAbandonedAddresses re-enters addresses whose only attempt was with
// the given peer back into the FIFO queue, preserving any other peers'
// still-live attempts untouched.
func requeueAbandonedAddresses(ls *state.LedgerSyncState, peer state.PeerID) {
	// Sort addresses before iterating: map range order is randomized per
	// process, and the order addresses are re-enqueued in becomes part of
	// ls.Queue, which must be a pure function of Pending, not of iteration
	// order.
	addrs := make([]state.AddrKey, 0, len(ls.Pending))
	for addr := range ls.Pending {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		attempts := ls.Pending[addr]
		if a, ok := attempts[peer]; ok {
			delete(attempts, peer)
			_ = a
			if len(attempts) == 0 {
				delete(ls.Pending, addr)
				enqueueIfAbsent(ls, addr)
			}
		}
	}
}

func enqueueIfAbsent(ls *state.LedgerSyncState, addr state.AddrKey) {
	for _, q := range ls.Queue {
		if q == addr {
			return
		}
	}
	// No ledger address may appear in both the pending set and the FIFO
	// queue — callers must have already removed addr
	// from Pending before calling this.
	if _, stillPending := ls.Pending[addr]; stillPending {
		return
	}
	ls.Queue = append(ls.Queue, addr)
}

func reduceLedgerQueryInit(s *state.State, a action.SyncLedgerQueryInit, now time.Time) (*state.State, []action.Action) {
	ls := s.Sync.Ledger
	if ls == nil {
		return s, nil
	}
	addr := state.AddrKey(a.Addr)
	// Remove from queue (it is now in-flight) and record the attempt.
	for i, q := range ls.Queue {
		if q == addr {
			ls.Queue = append(ls.Queue[:i], ls.Queue[i+1:]...)
			break
		}
	}
	if ls.Pending[addr] == nil {
		ls.Pending[addr] = make(map[state.PeerID]*state.LedgerQueryAttempt)
	}
	ls.Pending[addr][a.Peer] = &state.LedgerQueryAttempt{
		Peer: a.Peer, Status: state.AttemptPending, RPCID: a.RPCID,
	}
	return s, nil
}

func reduceLedgerQueryError(s *state.State, a action.SyncLedgerQueryError, now time.Time) (*state.State, []action.Action) {
	ls := s.Sync.Ledger
	if ls == nil {
		return s, nil
	}
	addr := state.AddrKey(a.Addr)
	attempts, ok := ls.Pending[addr]
	if !ok {
		return s, nil
	}
	at, ok := attempts[a.Peer]
	if !ok {
		return s, nil
	}
	// Mark this attempt errored; other peers' attempts at the same address
	// remain untouched.
	at.Status = state.AttemptError

	allErrored := true
	for _, other := range attempts {
		if other.Status != state.AttemptError {
			allErrored = false
			break
		}
	}
	if allErrored {
		// "reissue any address whose all attempts are errored".
		delete(ls.Pending, addr)
		enqueueIfAbsent(ls, addr)
	}
	return s, nil
}

// reduceLedgerQueryResponse is the validation gate: every response is
// re-hashed and compared to the already-validated expected hash before
// anything is written to the ledger or the BFS frontier advances.
func reduceLedgerQueryResponse(s *state.State, a action.SyncLedgerQueryResponse, now time.Time) (*state.State, []action.Action) {
	ls := s.Sync.Ledger
	if ls == nil {
		return s, nil
	}
	addr := state.AddrKey(a.Addr)
	expected, haveExpected := ls.ExpectedHash[addr]
	if !haveExpected {
		return s, nil
	}

	if a.Err != nil {
		return reduceLedgerQueryError(s, action.SyncLedgerQueryError{Peer: a.Peer, Addr: a.Addr, Err: a.Err}, now)
	}

	if a.Leaf {
		gotHash, ok := ledger.HashAccountBundle(a.Accounts)
		if !ok || gotHash != expected {
			return reduceLedgerQueryError(s, action.SyncLedgerQueryError{Peer: a.Peer, Addr: a.Addr, Err: errHashMismatch}, now)
		}
		delete(ls.Pending, addr)
		delete(ls.ExpectedHash, addr)
		ls.NumAccountsAccepted += uint64(len(a.Accounts))
		if ledgerSyncComplete(ls) {
			return s, []action.Action{action.SyncPhaseTransition{
				From: string(state.PhaseRootLedgerSync), To: string(state.PhaseStagedLedgerReconstruct),
				Reason: "snarked ledger fetched",
			}}
		}
		return s, nil
	}

	depth := len(addr)
	gotHash := ledger.HashCombine(a.Children[0], a.Children[1], depth)
	if gotHash != expected {
		return reduceLedgerQueryError(s, action.SyncLedgerQueryError{Peer: a.Peer, Addr: a.Addr, Err: errHashMismatch}, now)
	}
	// Success: record both children and enqueue them.
	delete(ls.Pending, addr)
	delete(ls.ExpectedHash, addr)
	ls.NumHashesAccepted++

	leftAddr := state.AddrKey(append(append([]byte{}, a.Addr...), 0))
	rightAddr := state.AddrKey(append(append([]byte{}, a.Addr...), 1))
	ls.ExpectedHash[leftAddr] = a.Children[0]
	ls.ExpectedHash[rightAddr] = a.Children[1]
	enqueueIfAbsent(ls, leftAddr)
	enqueueIfAbsent(ls, rightAddr)

	var followups []action.Action
	if ledgerSyncComplete(ls) {
		followups = append(followups, action.SyncPhaseTransition{
			From: string(state.PhaseRootLedgerSync), To: string(state.PhaseStagedLedgerReconstruct),
			Reason: "snarked ledger fetched",
		})
	}
	return s, followups
}

// errHashMismatch is a PeerProtocolViolation: a response that fails
// re-hashing against the already-validated parent is cryptographically
// invalid data, not a transient hiccup.
var errHashMismatch = &common.PeerProtocolViolation{Err: errors.New("ledger query hash mismatch")}

// ledgerSyncComplete is the termination condition: the queue is empty and
// no pending attempts remain.
func ledgerSyncComplete(ls *state.LedgerSyncState) bool {
	if len(ls.Queue) != 0 {
		return false
	}
	for _, attempts := range ls.Pending {
		if len(attempts) != 0 {
			return false
		}
	}
	return true
}

// SchedulerTick pairs available peers with queue heads. It is invoked by the dispatcher on every state change that might
// affect peer availability, not on a timer, keeping the scheduler
// cooperative and non-blocking.
func SchedulerTick(s *state.State, availablePeers []state.PeerID, now time.Time) []action.Action {
	ls := s.Sync.Ledger
	if ls == nil || len(ls.Queue) == 0 {
		return nil
	}
	inFlight := make(map[state.PeerID]int)
	for _, attempts := range ls.Pending {
		for peer := range attempts {
			inFlight[peer]++
		}
	}
	var followups []action.Action
	qi := 0
	for _, peer := range availablePeers {
		if inFlight[peer] >= params.LedgerSyncPerPeerConcurrency {
			continue
		}
		for qi < len(ls.Queue) {
			addr := ls.Queue[qi]
			qi++
			if already, ok := ls.Pending[addr][peer]; ok && already != nil {
				continue
			}
			followups = append(followups, action.SyncLedgerQueryInit{
				Peer: peer,
				Addr: []byte(addr),
				Leaf: isLeafBundleAddr(addr),
			})
			inFlight[peer]++
			break
		}
	}
	return followups
}
