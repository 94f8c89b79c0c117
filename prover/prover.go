// Package prover defines the boundary between this node and the external
// proving system. The design treats the prover as an opaque, possibly
// slow, possibly out-of-process component; this package only specifies
// the interface and a local signature-based stand-in used until a real
// SNARK backend is wired in, consistent with never letting the call block
// the reducer itself (callers always invoke it from their own goroutine,
// see producer.Producer.seal).
package prover

import (
	"context"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec"
)

// Prover turns a candidate block body into a proof of its validity. A
// return of a non-nil error is always a ProverFailure: the candidate for
// that slot is dropped, never retried with the same inputs.
type Prover interface {
	Prove(ctx context.Context, block []byte) (proof []byte, err error)
}

// Local is a stand-in prover: it signs the block hash with a node-held
// secp256k1 key. It satisfies the same interface a real recursive SNARK
// prover would, so swapping one in later is a one-line change at the
// call site.
type Local struct {
	key *btcec.PrivateKey
}

func NewLocal(key *btcec.PrivateKey) *Local {
	return &Local{key: key}
}

func (l *Local) Prove(ctx context.Context, block []byte) ([]byte, error) {
	h := sha256.Sum256(block)
	sig, err := l.key.Sign(h[:])
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// Verify checks a Local-produced proof against the signer's public key.
func Verify(pub *btcec.PublicKey, block, proof []byte) bool {
	sig, err := btcec.ParseSignature(proof, btcec.S256())
	if err != nil {
		return false
	}
	h := sha256.Sum256(block)
	return sig.Verify(h[:], pub)
}
