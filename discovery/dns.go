// Package discovery resolves bootstrap peers out of band: a DNS TXT-record
// tree (mirroring the node's dnsdisc mechanism) and, for peers behind NAT,
// a WebSocket signaling relay carrying SDP offers/answers.
package discovery

import (
	"context"
	"encoding/hex"
	"net"
	"strings"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/log"
)

var logger = log.New("pkg", "discovery")

// DNSResolver looks up bootstrap peer ids published as TXT records under a
// root domain, one peer id (hex-encoded) per comma-separated TXT entry.
type DNSResolver struct {
	Root    string
	Lookup  func(ctx context.Context, name string) ([]string, error)
	Publish func(ctx context.Context, a action.Action)
}

// NewDNSResolver builds a resolver using the system DNS client.
func NewDNSResolver(root string, publish func(ctx context.Context, a action.Action)) *DNSResolver {
	var r net.Resolver
	return &DNSResolver{
		Root:    root,
		Lookup:  r.LookupTXT,
		Publish: publish,
	}
}

// Poll performs one resolution pass and publishes whatever new peer ids it
// finds as a P2PDiscoveryPeersFound action.
func (d *DNSResolver) Poll(ctx context.Context) error {
	records, err := d.Lookup(ctx, d.Root)
	if err != nil {
		return err
	}
	var ids []action.PeerID
	for _, rec := range records {
		for _, field := range strings.Split(rec, ",") {
			field = strings.TrimSpace(field)
			raw, err := hex.DecodeString(field)
			if err != nil || len(raw) != 32 {
				continue
			}
			var id action.PeerID
			copy(id[:], raw)
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	logger.Debug("dns bootstrap resolved peers", "root", d.Root, "count", len(ids))
	d.Publish(ctx, action.P2PDiscoveryPeersFound{Peers: ids})
	return nil
}
