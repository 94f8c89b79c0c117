package reducer

import (
	"errors"
	"sort"
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/common"
	"github.com/mina-go/node/params"
	"github.com/mina-go/node/state"
)

func reducePeerConnect(s *state.State, a action.P2PPeerConnect, now time.Time) (*state.State, []action.Action) {
	p, ok := s.Peers.Peers[a.Peer]
	if !ok {
		p = state.NewPeer(a.Peer)
		s.Peers.Peers[a.Peer] = p
	}
	p.Status = state.PeerConnectingInit
	p.LastSeen = now
	return s, nil
}

func reducePeerReady(s *state.State, a action.P2PPeerReady, now time.Time) (*state.State, []action.Action) {
	p, ok := s.Peers.Peers[a.Peer]
	if !ok {
		return s, nil
	}
	p.Status = state.PeerReady
	p.LastSeen = now
	return s, nil
}

func reducePeerDisconnect(s *state.State, a action.P2PPeerDisconnect, now time.Time) (*state.State, []action.Action) {
	p, ok := s.Peers.Peers[a.Peer]
	if !ok {
		return s, nil
	}
	// Every outstanding RPC is errored at once, in ascending RPC id order:
	// map iteration order is randomized per process, and this order feeds
	// the followups slice that becomes part of State via the bus.
	ids := make([]int64, 0, len(p.RPCs))
	for id := range p.RPCs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var followups []action.Action
	for _, id := range ids {
		r := p.RPCs[id]
		if r.Pending {
			r.Pending = false
			r.Errored = true
			followups = append(followups, action.P2PRPCResponse{
				Peer: a.Peer, RPCID: id, Err: errPeerDisconnected,
			})
		}
	}
	p.Status = state.PeerDisconnected
	p.DisconnectedAt = now
	backoff := params.ReconnectBackoffAfterClose
	if a.Reason != "" && a.Reason != "closed" {
		p.ConsecutiveErrors++
		p.TotalErrors++
		backoff = params.ReconnectBackoffAfterError
	}
	p.ReconnectNotBefore = now.Add(backoff)

	// Any address whose sole pending attempt was this peer re-enters the
	// queue without discarding partial progress.
	if s.Sync.Ledger != nil {
		requeueAbandonedAddresses(s.Sync.Ledger, a.Peer)
	}
	return s, followups
}

// errPeerDisconnected is a TransientPeer error: any RPC still outstanding
// when the peer drops is recoverable by retrying against a different peer,
// not a reason to penalize this one beyond the normal reconnect backoff.
var errPeerDisconnected = &common.TransientPeer{Err: errors.New("peer disconnected")}

func reduceChannelSend(s *state.State, a action.P2PChannelSend, now time.Time) (*state.State, []action.Action) {
	p, ok := s.Peers.Peers[a.Peer]
	if !ok {
		return s, nil
	}
	ch, ok := p.Channels[a.Channel]
	if !ok {
		return s, nil
	}
	// Items sent form a strictly increasing cursor prefix: advance past the
	// whole requested window (Cursor+Max); a send behind the cursor is ignored.
	if a.Cursor < ch.NextSendIndex {
		return s, nil
	}
	ch.NextSendIndex = a.Cursor + uint64(a.Max)
	ch.LastSentAt = now
	return s, nil
}

func reduceChannelMessageReceived(s *state.State, a action.P2PChannelMessageReceived, now time.Time) (*state.State, []action.Action) {
	p, ok := s.Peers.Peers[a.Peer]
	if !ok {
		return s, nil
	}
	p.LastSeen = now
	// Kind-typed validation happens downstream (ledger query answers are
	// re-hashed by reduceLedgerQueryResponse, etc.); this reducer only
	// tracks liveness, matching the node's split between transport-level
	// peer bookkeeping (probe/peer.go) and protocol-level validation.
	return s, nil
}

func reduceRPCInit(s *state.State, a action.P2PRPCInit, now time.Time) (*state.State, []action.Action) {
	p, ok := s.Peers.Peers[a.Peer]
	if !ok {
		return s, nil
	}
	id := a.RPCID
	if id == 0 {
		p.NextRPCID++
		id = p.NextRPCID
	} else if id <= p.NextRPCID {
		// RPC ids are monotonically increasing per peer.
		return s, nil
	} else {
		p.NextRPCID = id
	}
	p.RPCs[id] = &state.RPCState{
		ID: id, Kind: a.Kind_, SentAt: now, Deadline: a.Deadline, Pending: true,
	}
	return s, nil
}

func reduceRPCTimeout(s *state.State, a action.P2PRPCTimeout, now time.Time) (*state.State, []action.Action) {
	p, ok := s.Peers.Peers[a.Peer]
	if !ok {
		return s, nil
	}
	r, ok := p.RPCs[a.RPCID]
	if !ok || !r.Pending {
		return s, nil
	}
	r.Pending = false
	r.Errored = true
	p.ConsecutiveErrors++
	p.TotalErrors++
	return s, []action.Action{action.P2PRPCResponse{Peer: a.Peer, RPCID: a.RPCID, Err: errTimeout}}
}

var errTimeout = &common.Timeout{Err: errors.New("rpc timeout")}

func reduceRPCResponse(s *state.State, a action.P2PRPCResponse, now time.Time) (*state.State, []action.Action) {
	p, ok := s.Peers.Peers[a.Peer]
	if !ok {
		return s, nil
	}
	r, ok := p.RPCs[a.RPCID]
	if !ok {
		return s, nil
	}
	r.Pending = false
	if a.Err != nil {
		r.Errored = true
		p.ConsecutiveErrors++
		p.TotalErrors++
	} else {
		p.ConsecutiveErrors = 0
	}
	delete(p.RPCs, a.RPCID)
	return s, nil
}

func reduceDiscoveryPeersFound(s *state.State, a action.P2PDiscoveryPeersFound, now time.Time) (*state.State, []action.Action) {
	var followups []action.Action
	for _, id := range a.Peers {
		if _, ok := s.Peers.Peers[id]; !ok {
			followups = append(followups, action.P2PPeerConnect{Peer: id, Outbound: true})
		}
	}
	return s, followups
}
