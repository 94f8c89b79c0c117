// Package ledger implements the binary Merkle accumulator used for both the
// snarked ledger and the staged-ledger base: fixed-depth tree, leaf bundles
// of account records, internal nodes hashed from their two children. The
// hashing shape mirrors the node's trie package (trie/trie.go), adapted
// from a variable-depth hexary Merkle-Patricia trie down to the fixed-depth
// binary tree this domain actually needs.
package ledger

import (
	"golang.org/x/crypto/sha3"
)

// HashAccountBundle hashes the ordered concatenation of one or more
// binprot-encoded account records, as returned by a WhatContents reply. It
// reports false if accounts is empty, since a leaf-bundle reply must always
// carry at least one encoded slot (empty slots are still present as
// zero-value accounts, not omitted).
func HashAccountBundle(accounts [][]byte) (hash [32]byte, ok bool) {
	if len(accounts) == 0 {
		return hash, false
	}
	h := sha3.New256()
	for _, a := range accounts {
		h.Write(a)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, true
}

// HashCombine computes an internal node's hash from its two children. depth
// is folded into the hash so that a left child's hash at depth 1 can never
// be mistaken for a leaf-bundle hash of the same bytes at depth 2.
func HashCombine(left, right [32]byte, depth int) [32]byte {
	h := sha3.New256()
	h.Write([]byte{byte(depth)})
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Account is the decoded form of one leaf slot. Encoding/decoding of the
// wire binprot form lives in rpcproto; ledger only deals in already-decoded
// records once content queries resolve.
type Account struct {
	ID      AccountID
	Balance uint64
	Nonce   uint64
}

// AccountID mirrors common.AccountID without importing it, keeping ledger
// a leaf package the same way action and state are.
type AccountID struct {
	Owner   [32]byte
	TokenID uint64
}
