// Package state holds the single process-wide State value every subsystem
// reads and the reducer alone mutates. Cross-references between peers, channels and RPCs
// are plain index values (a PeerID, an int64 rpc id), never pointers, so
// the whole State is trivially serializable for journaling/replay.
package state

import (
	"time"

	"github.com/mina-go/node/action"
)

// PeerID aliases action.PeerID so callers never need to convert.
type PeerID = action.PeerID

// ChannelState tracks one multiplexed logical channel's send cursor and
// outstanding window.
type ChannelState struct {
	NextSendIndex uint64
	MaxItems      int
	LastSentAt    time.Time
}

// RPCState tracks one outstanding RPC owned by a peer.
type RPCState struct {
	ID       int64
	Kind     string
	SentAt   time.Time
	Deadline time.Time
	Pending  bool
	Errored  bool
}

// PeerStatus is the peer life-cycle state.
type PeerStatus int

const (
	PeerDisconnected PeerStatus = iota
	PeerConnectingInit
	PeerConnectingOfferSent
	PeerConnectingAnswerReceived
	PeerConnectingFinalizing
	PeerReady
)

// Peer is one peer registry record.
type Peer struct {
	ID           PeerID
	Status       PeerStatus
	BestTipHash  [32]byte
	BestTipHeight uint64
	LastSeen     time.Time
	DisconnectedAt time.Time
	ReconnectNotBefore time.Time

	Channels map[action.ChannelKind]*ChannelState
	RPCs     map[int64]*RPCState
	NextRPCID int64

	ConsecutiveErrors int
	TotalErrors       int
}

// NewPeer constructs a peer record created on accepted connection. Peer records are mutated only by the reducer thereafter.
func NewPeer(id PeerID) *Peer {
	return &Peer{
		ID:     id,
		Status: PeerDisconnected,
		Channels: map[action.ChannelKind]*ChannelState{
			action.ChannelPropagation:  {MaxItems: 32},
			action.ChannelRPC:          {MaxItems: 4},
			action.ChannelStreamingRPC: {MaxItems: 1},
			action.ChannelSignaling:    {MaxItems: 8},
		},
		RPCs: make(map[int64]*RPCState),
	}
}

// PeerRegistry is the arena of all peers, keyed by id.
type PeerRegistry struct {
	Peers map[PeerID]*Peer
}

func NewPeerRegistry() *PeerRegistry {
	return &PeerRegistry{Peers: make(map[PeerID]*Peer)}
}

// State is the single aggregate value the reducer advances.
type State struct {
	Now time.Time

	Peers *PeerRegistry
	Sync  *SyncState
	Snark *PoolState
	Tx    *PoolState

	ShutdownPending bool
	ShutdownReason  string
}

// NewState builds the zero-value State for a freshly started node.
func NewState() *State {
	return &State{
		Peers: NewPeerRegistry(),
		Sync:  &SyncState{Phase: PhaseIdle},
		Snark: NewPoolState(),
		Tx:    NewPoolState(),
	}
}

// PeerIsReady satisfies action.StateView.
func (s *State) PeerIsReady(id PeerID) bool {
	p, ok := s.Peers.Peers[id]
	return ok && p.Status == PeerReady
}

// PeerHasCapacity reports whether peer id has room for one more
// outstanding RPC channel send.
func (s *State) PeerHasCapacity(id PeerID) bool {
	p, ok := s.Peers.Peers[id]
	if !ok || p.Status != PeerReady {
		return false
	}
	pending := 0
	for _, r := range p.RPCs {
		if r.Pending {
			pending++
		}
	}
	return pending < maxInFlightPerPeer
}

const maxInFlightPerPeer = 4

// PeerReconnectAllowed satisfies action.StateView: a peer with no record yet
// (never seen before) is always eligible; one that has just disconnected
// must wait out its backoff window.
func (s *State) PeerReconnectAllowed(id PeerID, now time.Time) bool {
	p, ok := s.Peers.Peers[id]
	if !ok {
		return true
	}
	return !now.Before(p.ReconnectNotBefore)
}

// RPCIsPending satisfies action.StateView.
func (s *State) RPCIsPending(peer PeerID, rpcID int64) bool {
	p, ok := s.Peers.Peers[peer]
	if !ok {
		return false
	}
	r, ok := p.RPCs[rpcID]
	return ok && r.Pending
}

// SyncPhase satisfies action.StateView.
func (s *State) SyncPhase() string {
	return string(s.Sync.Phase)
}
