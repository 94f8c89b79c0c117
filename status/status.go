// Package status renders a human-readable scoreboard of the node's error
// taxonomy counters plus basic host resource usage, the same two-column
// table style the node's console tooling favors.
package status

import (
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/mina-go/node/common"
	"github.com/mina-go/node/state"
)

// ErrorClass mirrors the error taxonomy: transient-peer, protocol
// violation, timeout, resource exhaustion, config, and prover failure.
type ErrorClass string

const (
	ClassTransientPeer      ErrorClass = "transient_peer"
	ClassProtocolViolation  ErrorClass = "peer_protocol_violation"
	ClassTimeout            ErrorClass = "timeout"
	ClassResourceExhausted  ErrorClass = "local_resource_exhausted"
	ClassFatalConfig        ErrorClass = "fatal_config"
	ClassProverFailure      ErrorClass = "prover_failure"
)

// Counters tallies occurrences of each error class since process start.
type Counters struct {
	counts map[ErrorClass]uint64
}

func NewCounters() *Counters {
	return &Counters{counts: make(map[ErrorClass]uint64)}
}

// Incr records one occurrence of class.
func (c *Counters) Incr(class ErrorClass) {
	c.counts[class]++
}

// Classify maps one of the common package's §7 error-taxonomy wrappers to
// its ErrorClass. An error that isn't one of the known wrapper types is
// still counted, defaulting to ClassTransientPeer: an unclassified single
// RPC failure is the conservative assumption, never silently dropped.
func Classify(err error) ErrorClass {
	var transient *common.TransientPeer
	var violation *common.PeerProtocolViolation
	var timeout *common.Timeout
	var exhausted *common.LocalResourceExhausted
	var fatalCfg *common.FatalConfig
	var proverFail *common.ProverFailure

	switch {
	case errors.As(err, &violation):
		return ClassProtocolViolation
	case errors.As(err, &timeout):
		return ClassTimeout
	case errors.As(err, &exhausted):
		return ClassResourceExhausted
	case errors.As(err, &fatalCfg):
		return ClassFatalConfig
	case errors.As(err, &proverFail):
		return ClassProverFailure
	case errors.As(err, &transient):
		return ClassTransientPeer
	default:
		return ClassTransientPeer
	}
}

// Snapshot renders the current counters plus a live peer/sync-phase summary
// to w as a table.
func Snapshot(w *os.File, s *state.State, counters *Counters) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"metric", "value"})

	table.Append([]string{"sync_phase", string(s.Sync.Phase)})
	table.Append([]string{"peers_ready", fmt.Sprintf("%d", countReadyPeers(s))})
	if s.Sync.Ledger != nil {
		table.Append([]string{"ledger_accounts_accepted", fmt.Sprintf("%d", s.Sync.Ledger.NumAccountsAccepted)})
		table.Append([]string{"ledger_hashes_accepted", fmt.Sprintf("%d", s.Sync.Ledger.NumHashesAccepted)})
		table.Append([]string{"ledger_queue_depth", fmt.Sprintf("%d", len(s.Sync.Ledger.Queue))})
	}
	for class, n := range counters.counts {
		table.Append([]string{"errors_" + string(class), fmt.Sprintf("%d", n)})
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		table.Append([]string{"cpu_percent", fmt.Sprintf("%.1f", pct[0])})
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		table.Append([]string{"mem_used_percent", fmt.Sprintf("%.1f", vm.UsedPercent)})
	}
	table.Render()
}

func countReadyPeers(s *state.State) int {
	n := 0
	for _, p := range s.Peers.Peers {
		if p.Status == state.PeerReady {
			n++
		}
	}
	return n
}
