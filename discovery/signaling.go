// Signaling relay for peers behind NAT: a WebSocket connection to a relay
// server carrying SDP offer/answer exchanges, mirrored as
// P2PChannelMessageReceived events on the Signaling channel so the reducer
// can drive connection negotiation the same way it drives every other
// channel.
package discovery

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/mina-go/node/action"
)

// SignalingClient relays SDP messages through a websocket connection to a
// well-known relay URL.
type SignalingClient struct {
	URL     string
	Publish func(ctx context.Context, a action.Action)

	conn *websocket.Conn
}

// Dial connects to the relay and starts the read loop.
func (c *SignalingClient) Dial(ctx context.Context, self action.PeerID) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	c.conn = conn
	go c.readLoop(ctx, self)
	return nil
}

func (c *SignalingClient) readLoop(ctx context.Context, self action.PeerID) {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if len(payload) < 32 {
			continue
		}
		var from action.PeerID
		copy(from[:], payload[:32])
		c.Publish(ctx, action.P2PChannelMessageReceived{
			Peer: from, Channel: action.ChannelSignaling, Payload: payload[32:],
		})
	}
}

// Send relays an SDP offer/answer to the peer identified by to.
func (c *SignalingClient) Send(to action.PeerID, sdp []byte) error {
	msg := append(append([]byte{}, to[:]...), sdp...)
	return c.conn.WriteMessage(websocket.BinaryMessage, msg)
}

// Close closes the relay connection.
func (c *SignalingClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
