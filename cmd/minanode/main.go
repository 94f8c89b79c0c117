// Command minanode runs a single node: peer transport, DNS discovery, the
// sync controller, periodic status rendering, and the pure reducer tying
// them together. Signaling discovery and the block producer are not wired
// in here.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/config"
	"github.com/mina-go/node/discovery"
	"github.com/mina-go/node/dispatch"
	"github.com/mina-go/node/eventbus"
	"github.com/mina-go/node/log"
	"github.com/mina-go/node/peer"
	"github.com/mina-go/node/status"
	"github.com/mina-go/node/syncctl"
)

var logger = log.New("pkg", "main")

func main() {
	app := cli.NewApp()
	app.Name = "minanode"
	app.Usage = "run a node"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Value: "minanode.toml", Usage: "path to the TOML config file"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logger.Crit("fatal startup error", "err", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := eventbus.New(256)
	publish := func(ctx context.Context, a action.Action) { bus.Publish(ctx, a) }

	transport := peer.New(func(ctx context.Context, id action.PeerID) (net.Conn, error) {
		return net.DialTimeout("tcp", cfg.ListenAddr, 5*time.Second)
	}, publish)

	counters := status.NewCounters()
	d := dispatch.New(bus, transport, func() []action.PeerID { return transport.AvailablePeers() }, counters)

	dnsResolver := discovery.NewDNSResolver(cfg.DNSBootstrapRoot, publish)
	ctl := syncctl.New(publish)

	go pollDiscovery(ctx, dnsResolver)
	go periodicStatus(ctx, d, counters)
	go periodicSyncTick(ctx, d, ctl, transport)

	d.Run(ctx)
	return nil
}

func pollDiscovery(ctx context.Context, r *discovery.DNSResolver) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Poll(ctx); err != nil {
				logger.Warn("dns bootstrap poll failed", "err", err)
			}
		}
	}
}

func periodicStatus(ctx context.Context, d *dispatch.Dispatcher, counters *status.Counters) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status.Snapshot(os.Stdout, d.State(), counters)
		}
	}
}

func periodicSyncTick(ctx context.Context, d *dispatch.Dispatcher, ctl *syncctl.Controller, t *peer.Transport) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ctl.Tick(ctx, d.State(), t.AvailablePeers())
		}
	}
}
