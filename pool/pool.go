// Package pool wraps the reducer's candidate-tracking state with the parts
// that don't belong in a pure reduction: a bounded LRU of recently evicted
// keys (so a lagging peer's re-gossip of something we already dropped is a
// cheap membership check instead of a full re-verify) and a bloom filter
// used to skip-ack duplicate candidate announcements before they ever
// reach the reducer.
package pool

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/bloomfilter/v2"
)

// seenBits and seenHashes size the recent-announcement bloom filter. The
// filter is never reset or rebuilt, so its false-positive rate grows with
// every key added.
const (
	seenBits   = 1 << 20
	seenHashes = 4
)

// Gossip deduplicates inbound candidate announcements before they reach the
// reducer, and remembers recently evicted keys so a stale re-announcement
// doesn't get re-admitted.
type Gossip struct {
	seen    *bloomfilter.Filter
	evicted *lru.Cache
}

// NewGossip builds a Gossip filter sized for the given pool.
func NewGossip(evictedCacheSize int) (*Gossip, error) {
	filter, err := bloomfilter.New(seenBits, seenHashes)
	if err != nil {
		return nil, err
	}
	evicted, err := lru.New(evictedCacheSize)
	if err != nil {
		return nil, err
	}
	return &Gossip{seen: filter, evicted: evicted}, nil
}

// ShouldAdmit reports whether a freshly gossiped candidate key should be
// handed to the reducer: not already seen, and not a key we recently
// evicted for being fee-inferior.
func (g *Gossip) ShouldAdmit(key [32]byte) bool {
	if g.evicted.Contains(key) {
		return false
	}
	h := fnv64(key[:])
	if g.seen.Contains(h) {
		return false
	}
	g.seen.Add(h)
	return true
}

// MarkEvicted records a key that lost a fee-ordering supersession so
// future re-announcements of the same key are rejected without another
// full verify round.
func (g *Gossip) MarkEvicted(key [32]byte) {
	g.evicted.Add(key, struct{}{})
}

// fnv64 avoids pulling in a second hash dependency solely for the bloom
// filter's uint64 hash input.
func fnv64(b []byte) uint64 {
	const offset = 1469598103934665603
	const prime = 1099511628211
	h := uint64(offset)
	for _, c := range b {
		h ^= uint64(c)
		h *= prime
	}
	return h
}
