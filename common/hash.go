// Copyright 2015 The go-probeum Authors
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

// Package common holds the node's hash/identity value types, adapted from
// the node's common/types.go: fixed-size byte arrays with hex/JSON
// marshaling, generalized here to the node's domain-separated hash types
// and Base58Check encoding instead of the node's 20-byte addresses.
package common

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// HashLength is the size in bytes of every hash type in the system.
const HashLength = 32

// Hash is a generic 32-byte digest. The concrete domain (ledger hash, state
// hash, receipt-chain hash, ...) is carried out of band via the Base58Check
// version byte used when the hash is rendered for humans (see base58.go).
type Hash [HashLength]byte

// BytesToHash right-aligns b into a Hash, truncating from the left if b is
// longer than HashLength.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the 0x-prefixed hex form of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) MarshalJSON() ([]byte, error) { return json.Marshal(h.Hex()) }

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) >= 2 && s[:2] == "0x" {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != HashLength {
		return fmt.Errorf("common: invalid hash length %d", len(b))
	}
	copy(h[:], b)
	return nil
}

// PeerID is the wire identifier of a peer: the hash of its 32-byte identity
// public key.
type PeerID Hash

func (p PeerID) String() string { return Hash(p).Hex() }

// ErrZeroHash describes a zero-value hash where one is structurally
// invalid, e.g. an expected_hash_at(addr) that was never populated. No
// function in this module returns it.
var ErrZeroHash = errors.New("common: zero hash")
