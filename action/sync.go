package action

import "time"

// SyncBestTipRequest dispatches get_best_tip to a peer.
type SyncBestTipRequest struct {
	Peer PeerID
}

func (a SyncBestTipRequest) Kind() Kind { return KindSyncBestTipRequest }
func (a SyncBestTipRequest) Enabled(s StateView, now time.Time) bool {
	return s.PeerIsReady(a.Peer) && s.SyncPhase() == "BestTipAcquire"
}

// SyncBestTipResponse carries a peer's best-tip-with-proof reply.
type SyncBestTipResponse struct {
	Peer       PeerID
	Height     uint64
	StateHash  [32]byte
	RootHash   [32]byte
	DensityVRF uint64
	Err        error
}

func (a SyncBestTipResponse) Kind() Kind                             { return KindSyncBestTipResponse }
func (a SyncBestTipResponse) Enabled(s StateView, now time.Time) bool { return true }
func (a SyncBestTipResponse) ErrVal() error                           { return a.Err }

// SyncLedgerQueryInit dispatches one WhatChildHashes/WhatContents query
//.
type SyncLedgerQueryInit struct {
	Peer    PeerID
	Addr    []byte // bit-path from the root
	Leaf    bool   // true -> WhatContents, false -> WhatChildHashes
	RPCID   int64
}

func (a SyncLedgerQueryInit) Kind() Kind { return KindSyncLedgerQueryInit }
func (a SyncLedgerQueryInit) Enabled(s StateView, now time.Time) bool {
	return s.PeerIsReady(a.Peer) && s.PeerHasCapacity(a.Peer)
}

// SyncLedgerQueryResponse carries a validated or rejected query reply.
type SyncLedgerQueryResponse struct {
	Peer     PeerID
	Addr     []byte
	Leaf     bool
	Children [2][32]byte   // valid when !Leaf
	Accounts [][]byte      // rlp/binprot-encoded accounts, valid when Leaf
	Err      error
}

func (a SyncLedgerQueryResponse) Kind() Kind                             { return KindSyncLedgerQueryResponse }
func (a SyncLedgerQueryResponse) Enabled(s StateView, now time.Time) bool { return true }
func (a SyncLedgerQueryResponse) ErrVal() error                           { return a.Err }

// SyncLedgerQueryError marks one peer's attempt at addr errored without
// discarding other peers' attempts.
type SyncLedgerQueryError struct {
	Peer PeerID
	Addr []byte
	Err  error
}

func (a SyncLedgerQueryError) Kind() Kind                             { return KindSyncLedgerQueryError }
func (a SyncLedgerQueryError) Enabled(s StateView, now time.Time) bool { return true }
func (a SyncLedgerQueryError) ErrVal() error                           { return a.Err }

// SyncStagedLedgerPartRequest advances the streaming-RPC reconstructor one
// part at a time: the sender must not volunteer the next part.
type SyncStagedLedgerPartRequest struct {
	Peer PeerID
	Part string // "base" | "scan_state_base" | "tree"
	Index int
}

func (a SyncStagedLedgerPartRequest) Kind() Kind { return KindSyncStagedLedgerPartRequest }
func (a SyncStagedLedgerPartRequest) Enabled(s StateView, now time.Time) bool {
	return s.PeerIsReady(a.Peer)
}

// SyncStagedLedgerPartResponse carries one part of the streaming reconstruct.
type SyncStagedLedgerPartResponse struct {
	Peer  PeerID
	Part  string
	Index int
	Data  []byte
	Err   error
}

func (a SyncStagedLedgerPartResponse) Kind() Kind                             { return KindSyncStagedLedgerPartResponse }
func (a SyncStagedLedgerPartResponse) Enabled(s StateView, now time.Time) bool { return true }
func (a SyncStagedLedgerPartResponse) ErrVal() error                           { return a.Err }

// SyncCatchupBlockRequest fetches one missing block by hash.
type SyncCatchupBlockRequest struct {
	Peer PeerID
	Hash [32]byte
}

func (a SyncCatchupBlockRequest) Kind() Kind { return KindSyncCatchupBlockRequest }
func (a SyncCatchupBlockRequest) Enabled(s StateView, now time.Time) bool {
	return s.PeerIsReady(a.Peer)
}

// SyncCatchupBlockResponse carries a fetched block (opaque bytes; decoded by
// the reducer via rpcproto). Height is the block's claimed height, decoded
// by the same service call that produced Block, so the reducer can advance
// the frontier without itself parsing block bytes.
type SyncCatchupBlockResponse struct {
	Peer   PeerID
	Hash   [32]byte
	Block  []byte
	Height uint64
	Err    error
}

func (a SyncCatchupBlockResponse) Kind() Kind                             { return KindSyncCatchupBlockResponse }
func (a SyncCatchupBlockResponse) Enabled(s StateView, now time.Time) bool { return true }
func (a SyncCatchupBlockResponse) ErrVal() error                           { return a.Err }

// SyncPhaseTransition moves the sync controller between its five top-level
// phases; only reducer-visible counters and invariants trigger it, never
// wall clock.
type SyncPhaseTransition struct {
	From, To string
	Reason   string
}

func (a SyncPhaseTransition) Kind() Kind                             { return KindSyncPhaseTransition }
func (a SyncPhaseTransition) Enabled(s StateView, now time.Time) bool { return s.SyncPhase() == a.From }
