// Package config loads the node's TOML configuration file, verifies its
// signature against a trusted release key, and watches it for live edits,
// the same trio the node's own config tooling leans on: naoina/toml for
// the format, go-minisign for authenticity, and rjeczalik/notify for the
// filesystem watch.
package config

import (
	"fmt"
	"os"

	"github.com/jedisct1/go-minisign"
	"github.com/naoina/toml"
	"github.com/rjeczalik/notify"

	"github.com/mina-go/node/log"
)

var logger = log.New("pkg", "config")

// Config is the node's static configuration.
type Config struct {
	DataDir          string `toml:"data_dir"`
	ListenAddr       string `toml:"listen_addr"`
	DNSBootstrapRoot string `toml:"dns_bootstrap_root"`
	SignalingURL     string `toml:"signaling_url"`
	MaxPeers         int    `toml:"max_peers"`
}

// Load parses path as TOML into a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// VerifySignature checks path against a detached minisign signature file
// at path+".minisig" using the given trusted public key, refusing to start
// on a config file that was tampered with or not authored by the release
// key.
func VerifySignature(path string, publicKey minisign.PublicKey) error {
	sigBytes, err := os.ReadFile(path + ".minisig")
	if err != nil {
		return fmt.Errorf("config: read signature: %w", err)
	}
	sig, err := minisign.DecodeSignature(string(sigBytes))
	if err != nil {
		return fmt.Errorf("config: decode signature: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ok, err := publicKey.Verify(data, sig)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("config: signature verification failed for %s", path)
	}
	return nil
}

// Watch calls onChange whenever path is modified on disk, until stop is
// closed.
func Watch(path string, stop <-chan struct{}, onChange func()) error {
	events := make(chan notify.EventInfo, 4)
	if err := notify.Watch(path, events, notify.Write); err != nil {
		return err
	}
	go func() {
		defer notify.Stop(events)
		for {
			select {
			case <-events:
				logger.Info("config file changed, reloading", "path", path)
				onChange()
			case <-stop:
				return
			}
		}
	}()
	return nil
}
