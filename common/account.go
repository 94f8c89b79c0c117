package common

import "golang.org/x/crypto/sha3"

// AccountID identifies a ledger leaf: owner public key + token id.
type AccountID struct {
	Owner   PublicKey
	TokenID uint64
}

// PublicKey is a 32-byte peer/account identity public key.
type PublicKey [32]byte

func (k PublicKey) Bytes() []byte { return k[:] }

// Hash returns the wire peer id: the hash of the public key.
func (k PublicKey) Hash() PeerID {
	return PeerID(hashBytes(k[:]))
}

func hashBytes(b []byte) Hash {
	// Domain-free hash for identity derivation only; ledger internal-node
	// hashing goes through the depth-tagged ledger.HashCombine instead.
	return Hash(sha3.Sum256(b))
}
