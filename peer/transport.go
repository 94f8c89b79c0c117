// Package peer owns the live network connections backing the reducer's
// peer registry: one bufio-wrapped net.Conn per connected peer, framed
// with rpcproto. It is the Effects implementation the dispatch package
// calls into for peer dials, RPC sends and ledger-sync queries.
package peer

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/log"
	"github.com/mina-go/node/rpcproto"
)

var logger = log.New("pkg", "peer")

// Conn wraps one outstanding connection to a peer.
type Conn struct {
	ID     action.PeerID
	nc     net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
}

// Transport tracks every live connection and turns reducer follow-up
// actions into actual network writes. Inbound frames are read back by a
// per-connection goroutine that republishes each one as a P2PRPCResponse
// event.
type Transport struct {
	mu      sync.Mutex
	conns   map[action.PeerID]*Conn
	publish func(ctx context.Context, a action.Action)
	dial    func(ctx context.Context, id action.PeerID) (net.Conn, error)
}

// New builds a Transport. dial resolves a PeerID to a live connection
// (DNS/discovery-backed in production, a fake dialer in tests). publish
// hands a freshly observed action back to the dispatch event bus.
func New(dial func(ctx context.Context, id action.PeerID) (net.Conn, error), publish func(ctx context.Context, a action.Action)) *Transport {
	return &Transport{
		conns:   make(map[action.PeerID]*Conn),
		publish: publish,
		dial:    dial,
	}
}

// Perform satisfies dispatch.Effects. It acts on P2PPeerConnect,
// P2PRPCInit and SyncLedgerQueryInit and ignores every other action kind.
func (t *Transport) Perform(ctx context.Context, a action.Action) {
	switch v := a.(type) {
	case action.P2PPeerConnect:
		t.connect(ctx, v.Peer)
	case action.P2PRPCInit:
		t.sendRPC(ctx, v)
	case action.SyncLedgerQueryInit:
		t.sendLedgerQuery(ctx, v)
	}
}

func (t *Transport) connect(ctx context.Context, id action.PeerID) {
	t.mu.Lock()
	if _, ok := t.conns[id]; ok {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	nc, err := t.dial(ctx, id)
	if err != nil {
		logger.Warn("dial failed", "peer", id, "err", err)
		t.publish(ctx, action.P2PPeerDisconnect{Peer: id, Reason: err.Error()})
		return
	}
	c := &Conn{ID: id, nc: nc, reader: bufio.NewReader(nc)}
	t.mu.Lock()
	t.conns[id] = c
	t.mu.Unlock()

	t.publish(ctx, action.P2PPeerReady{Peer: id})
	go t.readLoop(ctx, c)
}

func (t *Transport) readLoop(ctx context.Context, c *Conn) {
	for {
		id, _, payload, err := rpcproto.ReadFrame(c.reader)
		if err != nil {
			t.mu.Lock()
			delete(t.conns, c.ID)
			t.mu.Unlock()
			t.publish(ctx, action.P2PPeerDisconnect{Peer: c.ID, Reason: err.Error()})
			return
		}
		t.publish(ctx, action.P2PRPCResponse{Peer: c.ID, RPCID: id, Payload: payload})
	}
}

func (t *Transport) sendRPC(ctx context.Context, v action.P2PRPCInit) {
	c := t.connOf(v.Peer)
	if c == nil {
		return
	}
	c.mu.Lock()
	err := rpcproto.WriteFrame(c.nc, v.RPCID, rpcproto.Kind(v.Kind_), v.Payload)
	c.mu.Unlock()
	if err != nil {
		t.publish(ctx, action.P2PRPCResponse{Peer: v.Peer, RPCID: v.RPCID, Err: err})
	}
	if !v.Deadline.IsZero() {
		delay := time.Until(v.Deadline)
		time.AfterFunc(delay, func() {
			t.publish(ctx, action.P2PRPCTimeout{Peer: v.Peer, RPCID: v.RPCID})
		})
	}
}

func (t *Transport) sendLedgerQuery(ctx context.Context, v action.SyncLedgerQueryInit) {
	c := t.connOf(v.Peer)
	if c == nil {
		return
	}
	kind := rpcproto.KindWhatChildHashes
	if v.Leaf {
		kind = rpcproto.KindWhatContents
	}
	c.mu.Lock()
	err := rpcproto.WriteFrame(c.nc, v.RPCID, kind, v.Addr)
	c.mu.Unlock()
	if err != nil {
		t.publish(ctx, action.SyncLedgerQueryError{Peer: v.Peer, Addr: v.Addr, Err: err})
	}
}

func (t *Transport) connOf(id action.PeerID) *Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conns[id]
}

// AvailablePeers returns every peer id with a live connection, for the
// ledger-sync scheduler's per-tick peer/work pairing.
func (t *Transport) AvailablePeers() []action.PeerID {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]action.PeerID, 0, len(t.conns))
	for id := range t.conns {
		ids = append(ids, id)
	}
	return ids
}

// Close tears down every live connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var first error
	for id, c := range t.conns {
		if err := c.nc.Close(); err != nil && first == nil {
			first = err
		}
		delete(t.conns, id)
	}
	return first
}
