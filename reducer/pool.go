package reducer

import (
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

// poolInsert records a freshly gossiped candidate, or replaces the existing
// one for the same key if the new entry's fee is strictly higher, emitting
// an Evicted action for whatever it replaced. inserted is false when the
// submission was rejected outright (an equal-or-lower fee against an
// existing candidate), in which case the pool is left untouched.
func poolInsert(pool *state.PoolState, key [32]byte, peer state.PeerID, fee uint64, now time.Time) (inserted, evicted bool) {
	if existing, ok := pool.ByKey[key]; ok {
		if fee <= existing.Fee {
			return false, false
		}
		evicted = true
		if m, ok := pool.ByPeer[existing.SourcePeer]; ok {
			delete(m, key)
		}
	}
	c := &state.Candidate{
		Key: key, SourcePeer: peer, Fee: fee,
		Status: state.CandidateReceived, ReceivedAt: now,
	}
	pool.ByKey[key] = c
	if pool.ByPeer[peer] == nil {
		pool.ByPeer[peer] = make(map[[32]byte]*state.Candidate)
	}
	pool.ByPeer[peer][key] = c
	return true, evicted
}

func reduceSnarkCandidateReceived(s *state.State, a action.SnarkPoolCandidateReceived, now time.Time) (*state.State, []action.Action) {
	inserted, evicted := poolInsert(s.Snark, a.Job, a.Peer, a.Fee, now)
	if !inserted {
		return s, nil
	}
	s.Snark.ByKey[a.Job].Status = state.CandidateFetchPending
	var followups []action.Action
	if evicted {
		followups = append(followups, action.SnarkPoolEvicted{Job: a.Job})
	}
	followups = append(followups, action.SnarkPoolWorkFetchInit{Peer: a.Peer, Job: a.Job})
	return s, followups
}

func reduceSnarkWorkFetchInit(s *state.State, a action.SnarkPoolWorkFetchInit, now time.Time) (*state.State, []action.Action) {
	// Bookkeeping-free: the candidate already entered CandidateFetchPending
	// when it was received. This action exists only to carry the dispatcher
	// to the effect that actually pulls the proof bytes from a.Peer.
	return s, nil
}

func reduceSnarkWorkFetched(s *state.State, a action.SnarkPoolWorkFetched, now time.Time) (*state.State, []action.Action) {
	c, ok := s.Snark.ByKey[a.Job]
	if !ok {
		return s, nil
	}
	if a.Err != nil {
		c.Status = state.CandidateError
		c.Errors++
		return s, nil
	}
	c.Status = state.CandidateFetched
	c.Payload = a.Proof
	return s, []action.Action{action.SnarkPoolVerifyInit{Job: a.Job}}
}

func reduceSnarkVerifyInit(s *state.State, a action.SnarkPoolVerifyInit, now time.Time) (*state.State, []action.Action) {
	c, ok := s.Snark.ByKey[a.Job]
	if !ok {
		return s, nil
	}
	c.Status = state.CandidateVerifyPending
	return s, nil
}

func reduceSnarkVerified(s *state.State, a action.SnarkPoolVerified, now time.Time) (*state.State, []action.Action) {
	c, ok := s.Snark.ByKey[a.Job]
	if !ok {
		return s, nil
	}
	if a.OK {
		c.Status = state.CandidateSuccess
	} else {
		c.Status = state.CandidateError
		c.Errors++
	}
	return s, nil
}

func reduceTxCandidateReceived(s *state.State, a action.TxPoolCandidateReceived, now time.Time) (*state.State, []action.Action) {
	inserted, evicted := poolInsert(s.Tx, a.Hash, a.Peer, a.Fee, now)
	if !inserted {
		return s, nil
	}
	s.Tx.ByKey[a.Hash].Status = state.CandidateFetchPending
	var followups []action.Action
	if evicted {
		followups = append(followups, action.TxPoolEvicted{Hash: a.Hash})
	}
	followups = append(followups, action.TxPoolWorkFetchInit{Peer: a.Peer, Hash: a.Hash})
	return s, followups
}

func reduceTxWorkFetchInit(s *state.State, a action.TxPoolWorkFetchInit, now time.Time) (*state.State, []action.Action) {
	return s, nil
}

func reduceTxWorkFetched(s *state.State, a action.TxPoolWorkFetched, now time.Time) (*state.State, []action.Action) {
	c, ok := s.Tx.ByKey[a.Hash]
	if !ok {
		return s, nil
	}
	if a.Err != nil {
		c.Status = state.CandidateError
		c.Errors++
		return s, nil
	}
	c.Status = state.CandidateFetched
	c.Payload = a.Body
	return s, []action.Action{action.TxPoolVerifyInit{Hash: a.Hash}}
}

func reduceTxVerifyInit(s *state.State, a action.TxPoolVerifyInit, now time.Time) (*state.State, []action.Action) {
	c, ok := s.Tx.ByKey[a.Hash]
	if !ok {
		return s, nil
	}
	c.Status = state.CandidateVerifyPending
	return s, nil
}

func reduceTxVerified(s *state.State, a action.TxPoolVerified, now time.Time) (*state.State, []action.Action) {
	c, ok := s.Tx.ByKey[a.Hash]
	if !ok {
		return s, nil
	}
	if a.OK {
		c.Status = state.CandidateSuccess
	} else {
		c.Status = state.CandidateError
		c.Errors++
	}
	return s, nil
}

func reduceSnarkEvicted(s *state.State, a action.SnarkPoolEvicted, now time.Time) (*state.State, []action.Action) {
	delete(s.Snark.ByKey, a.Job)
	return s, nil
}

func reduceTxEvicted(s *state.State, a action.TxPoolEvicted, now time.Time) (*state.State, []action.Action) {
	delete(s.Tx.ByKey, a.Hash)
	return s, nil
}
