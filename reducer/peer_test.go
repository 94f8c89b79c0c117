package reducer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/params"
	"github.com/mina-go/node/state"
)

func TestReducePeerDisconnectUsesShortBackoffOnCleanClose(t *testing.T) {
	s := state.NewState()
	id := state.PeerID{1}
	s.Peers.Peers[id] = state.NewPeer(id)
	now := time.Now()

	s, _ = reducePeerDisconnect(s, action.P2PPeerDisconnect{Peer: id, Reason: "closed"}, now)

	p := s.Peers.Peers[id]
	require.Equal(t, state.PeerDisconnected, p.Status)
	want := now.Add(params.ReconnectBackoffAfterClose)
	require.True(t, p.ReconnectNotBefore.Equal(want), "expected the short backoff on a clean close, got %v want %v", p.ReconnectNotBefore, want)
	require.Zero(t, p.ConsecutiveErrors, "a clean close must not count as an error")
}

func TestReducePeerDisconnectEscalatesBackoffOnError(t *testing.T) {
	s := state.NewState()
	id := state.PeerID{1}
	s.Peers.Peers[id] = state.NewPeer(id)
	now := time.Now()

	s, _ = reducePeerDisconnect(s, action.P2PPeerDisconnect{Peer: id, Reason: "protocol violation"}, now)

	p := s.Peers.Peers[id]
	want := now.Add(params.ReconnectBackoffAfterError)
	require.True(t, p.ReconnectNotBefore.Equal(want), "expected the long backoff after an error-driven disconnect, got %v want %v", p.ReconnectNotBefore, want)
	require.Equal(t, 1, p.ConsecutiveErrors)
	require.Equal(t, 1, p.TotalErrors)
}

func TestReducePeerDisconnectErrorsEveryPendingRPC(t *testing.T) {
	s := state.NewState()
	id := state.PeerID{2}
	p := state.NewPeer(id)
	p.RPCs[1] = &state.RPCState{ID: 1, Pending: true}
	p.RPCs[2] = &state.RPCState{ID: 2, Pending: false, Errored: false}
	s.Peers.Peers[id] = p

	_, followups := reducePeerDisconnect(s, action.P2PPeerDisconnect{Peer: id}, time.Now())
	require.Len(t, followups, 1, "expected exactly one response for the single pending RPC")

	resp, ok := followups[0].(action.P2PRPCResponse)
	require.True(t, ok, "expected a P2PRPCResponse follow-up, got %v", followups[0])
	require.EqualValues(t, 1, resp.RPCID)
}

func TestReducePeerDisconnectOrdersRPCResponsesByAscendingID(t *testing.T) {
	id := state.PeerID{5}
	p := state.NewPeer(id)
	// Populate in an order that would surface map-iteration nondeterminism
	// if the reducer ever stopped sorting before building followups.
	p.RPCs[9] = &state.RPCState{ID: 9, Pending: true}
	p.RPCs[1] = &state.RPCState{ID: 1, Pending: true}
	p.RPCs[5] = &state.RPCState{ID: 5, Pending: true}

	for i := 0; i < 20; i++ {
		s := state.NewState()
		s.Peers.Peers[id] = p
		_, followups := reducePeerDisconnect(s, action.P2PPeerDisconnect{Peer: id}, time.Now())
		require.Len(t, followups, 3)
		require.EqualValues(t, 1, followups[0].(action.P2PRPCResponse).RPCID)
		require.EqualValues(t, 5, followups[1].(action.P2PRPCResponse).RPCID)
		require.EqualValues(t, 9, followups[2].(action.P2PRPCResponse).RPCID)

		// Restore pending state for the next iteration since the reducer
		// mutates p.RPCs entries in place.
		p.RPCs[9].Pending, p.RPCs[9].Errored = true, false
		p.RPCs[1].Pending, p.RPCs[1].Errored = true, false
		p.RPCs[5].Pending, p.RPCs[5].Errored = true, false
	}
}

func TestPeerReconnectAllowedGatesOnBackoffWindow(t *testing.T) {
	s := state.NewState()
	id := state.PeerID{3}

	require.True(t, s.PeerReconnectAllowed(id, time.Now()), "an unknown peer must always be allowed to connect")

	now := time.Now()
	s.Peers.Peers[id] = state.NewPeer(id)
	s, _ = reducePeerDisconnect(s, action.P2PPeerDisconnect{Peer: id, Reason: "closed"}, now)

	require.False(t, s.PeerReconnectAllowed(id, now), "reconnect should be denied immediately after a disconnect")

	later := now.Add(params.ReconnectBackoffAfterClose + time.Millisecond)
	require.True(t, s.PeerReconnectAllowed(id, later), "reconnect should be allowed once the backoff window has elapsed")
}
