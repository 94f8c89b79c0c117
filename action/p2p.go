package action

import "time"

// PeerID is a 32-byte peer identity hash (mirrors common.PeerID without an
// import cycle; action stays a leaf package).
type PeerID [32]byte

// P2PPeerConnect fires when a dial or inbound accept begins.
type P2PPeerConnect struct {
	Peer     PeerID
	Outbound bool
}

func (a P2PPeerConnect) Kind() Kind { return KindP2PPeerConnect }
func (a P2PPeerConnect) Enabled(s StateView, now time.Time) bool {
	return !s.PeerIsReady(a.Peer) && s.PeerReconnectAllowed(a.Peer, now)
}

// P2PPeerReady fires when channel negotiation completes.
type P2PPeerReady struct {
	Peer PeerID
}

func (a P2PPeerReady) Kind() Kind                             { return KindP2PPeerReady }
func (a P2PPeerReady) Enabled(s StateView, now time.Time) bool { return true }

// P2PPeerDisconnect fires on any fatal channel error or explicit close.
type P2PPeerDisconnect struct {
	Peer   PeerID
	Reason string
}

func (a P2PPeerDisconnect) Kind() Kind                             { return KindP2PPeerDisconnect }
func (a P2PPeerDisconnect) Enabled(s StateView, now time.Time) bool { return true }

// P2PChannelSend asks the dispatcher to collect up to max items strictly
// after cursor and send them as a ResponseSend.
type P2PChannelSend struct {
	Peer    PeerID
	Channel ChannelKind
	Cursor  uint64
	Max     int
}

func (a P2PChannelSend) Kind() Kind { return KindP2PChannelSend }
func (a P2PChannelSend) Enabled(s StateView, now time.Time) bool {
	return s.PeerIsReady(PeerID(a.Peer)) && s.PeerHasCapacity(PeerID(a.Peer))
}

// ChannelKind enumerates the four multiplexed logical channels.
type ChannelKind int

const (
	ChannelPropagation ChannelKind = iota
	ChannelRPC
	ChannelStreamingRPC
	ChannelSignaling
)

// P2PChannelMessageReceived is the reducer-facing event for any inbound
// message on any channel; the reducer dispatches to per-channel validation.
type P2PChannelMessageReceived struct {
	Peer    PeerID
	Channel ChannelKind
	Payload []byte
}

func (a P2PChannelMessageReceived) Kind() Kind                             { return KindP2PChannelMessageReceived }
func (a P2PChannelMessageReceived) Enabled(s StateView, now time.Time) bool { return true }

// P2PRPCInit dispatches a new outgoing RPC; RPCID is owned by the peer's
// state and must be monotonically increasing per peer (spec invariant).
type P2PRPCInit struct {
	Peer    PeerID
	RPCID   int64
	Kind_   string
	Payload []byte
	Deadline time.Time
}

func (a P2PRPCInit) Kind() Kind { return KindP2PRPCInit }
func (a P2PRPCInit) Enabled(s StateView, now time.Time) bool {
	return s.PeerIsReady(PeerID(a.Peer)) && s.PeerHasCapacity(PeerID(a.Peer))
}

// P2PRPCTimeout fires when a per-RPC deadline elapses.
type P2PRPCTimeout struct {
	Peer  PeerID
	RPCID int64
}

func (a P2PRPCTimeout) Kind() Kind { return KindP2PRPCTimeout }
func (a P2PRPCTimeout) Enabled(s StateView, now time.Time) bool {
	return s.RPCIsPending(a.Peer, a.RPCID)
}

// P2PRPCResponse carries a correlated RPC reply back to the reducer.
type P2PRPCResponse struct {
	Peer    PeerID
	RPCID   int64
	Payload []byte
	Err     error
}

func (a P2PRPCResponse) Kind() Kind { return KindP2PRPCResponse }
func (a P2PRPCResponse) Enabled(s StateView, now time.Time) bool {
	return s.RPCIsPending(a.Peer, a.RPCID)
}
func (a P2PRPCResponse) ErrVal() error { return a.Err }

// P2PDiscoveryPeersFound reports bootstrap peers resolved out of band (DNS
// tree, signaling channel); never mutates state directly.
type P2PDiscoveryPeersFound struct {
	Peers []PeerID
}

func (a P2PDiscoveryPeersFound) Kind() Kind                             { return KindP2PDiscoveryPeersFound }
func (a P2PDiscoveryPeersFound) Enabled(s StateView, now time.Time) bool { return true }
