// Package blockapply validates an inbound block (from catchup or a peer's
// broadcast) and, if its parent is known and its proof verifies, records it
// through the caller-supplied Applier. Its only other output is the
// returned verdict, which ToCatchupResponse turns into the reducer-facing
// SyncCatchupBlockResponse action.
package blockapply

import (
	"errors"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/common"
)

// ErrUnknownParent means the block's parent hash is not a block this node
// has already applied; the caller should fall back to catchup for the
// missing ancestor instead of discarding the block outright. It is a
// TransientPeer error: the same block fetched from a peer that has the
// ancestor will resolve it.
var ErrUnknownParent = &common.TransientPeer{Err: errors.New("blockapply: unknown parent")}

// ErrInvalidProof means the block's consensus proof failed prover
// verification and the block must be dropped. It is a PeerProtocol
// violation: the sender either has a bad proof backend or is adversarial.
var ErrInvalidProof = &common.PeerProtocolViolation{Err: errors.New("blockapply: invalid proof")}

// Block is the decoded shape blockapply operates on; rpcproto handles the
// wire encoding before a Block ever reaches here.
type Block struct {
	Hash       [32]byte
	ParentHash [32]byte
	Height     uint64
	Proof      []byte
}

// Verifier checks a block's consensus proof against its claimed state.
// A real implementation delegates to the prover package; tests can supply
// a stub that always succeeds or always fails.
type Verifier func(b Block) error

// Applier is the minimal ledger surface blockapply needs: whether a given
// hash is already known, and where to record a newly accepted block.
type Applier interface {
	Known(hash [32]byte) bool
	Apply(b Block) error
}

// Apply validates b against verify and, if valid and its parent is known,
// commits it via store. It returns the error to report upstream (as a
// SyncCatchupBlockResponse.Err or a rejected broadcast) without panicking
// on any malformed input.
func Apply(b Block, verify Verifier, store Applier) error {
	if !store.Known(b.ParentHash) {
		return ErrUnknownParent
	}
	if err := verify(b); err != nil {
		return ErrInvalidProof
	}
	return store.Apply(b)
}

// ToCatchupResponse converts an Apply outcome into the reducer-facing
// follow-up action for a catchup fetch, carrying the block's decoded height
// along so the reducer can advance SyncState.FrontierHeight without
// re-parsing Block itself.
func ToCatchupResponse(peer action.PeerID, b Block, raw []byte, err error) action.SyncCatchupBlockResponse {
	return action.SyncCatchupBlockResponse{Peer: peer, Hash: b.Hash, Block: raw, Height: b.Height, Err: err}
}
