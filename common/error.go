// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

// Error-taxonomy wrappers: TransientPeer, PeerProtocolViolation, Timeout,
// LocalResourceExhausted, FatalConfig, ProverFailure. Each wraps an
// underlying error and supports errors.Unwrap/errors.As.
package common

import "fmt"

// TransientPeer is a single-RPC failure recoverable by retrying against a
// different peer; it never disconnects the peer on its own.
type TransientPeer struct{ Err error }

func (e *TransientPeer) Error() string { return fmt.Sprintf("transient peer error: %v", e.Err) }
func (e *TransientPeer) Unwrap() error { return e.Err }

// PeerProtocolViolation means a peer sent data failing cryptographic or
// structural validation (bad hash, bad proof, malformed frame); callers
// must disconnect and locally ban the peer.
type PeerProtocolViolation struct{ Err error }

func (e *PeerProtocolViolation) Error() string {
	return fmt.Sprintf("peer protocol violation: %v", e.Err)
}
func (e *PeerProtocolViolation) Unwrap() error { return e.Err }

// Timeout means a per-RPC deadline elapsed with no reply.
type Timeout struct{ Err error }

func (e *Timeout) Error() string { return fmt.Sprintf("timeout: %v", e.Err) }
func (e *Timeout) Unwrap() error { return e.Err }

// LocalResourceExhausted means disk, memory, or the prover queue is full;
// callers apply backpressure rather than aborting.
type LocalResourceExhausted struct{ Err error }

func (e *LocalResourceExhausted) Error() string {
	return fmt.Sprintf("local resource exhausted: %v", e.Err)
}
func (e *LocalResourceExhausted) Unwrap() error { return e.Err }

// FatalConfig means a missing key or incompatible genesis; surfaced only at
// startup, never mid-run.
type FatalConfig struct{ Err error }

func (e *FatalConfig) Error() string { return fmt.Sprintf("fatal config error: %v", e.Err) }
func (e *FatalConfig) Unwrap() error { return e.Err }

// ProverFailure means block or work proof generation failed; the candidate
// is dropped and the failure logged, never retried with the same inputs.
type ProverFailure struct{ Err error }

func (e *ProverFailure) Error() string { return fmt.Sprintf("prover failure: %v", e.Err) }
func (e *ProverFailure) Unwrap() error { return e.Err }