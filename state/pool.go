package state

import "time"

// CandidateStatus is the verification-pipeline stage a pool entry moves
// through: received -> fetch-pending -> fetched -> verify-pending ->
// success or error.
type CandidateStatus int

const (
	CandidateReceived CandidateStatus = iota
	CandidateFetchPending
	CandidateFetched
	CandidateVerifyPending
	CandidateSuccess
	CandidateError
)

// Candidate is the shared shape for both snark-pool and tx-pool entries:
// source peer, fee, payload, and fetch/verify progress, keyed by job id or
// tx hash depending on the pool.
type Candidate struct {
	Key        [32]byte // job id or tx hash
	SourcePeer PeerID
	Fee        uint64
	Status     CandidateStatus
	Payload    []byte
	ReceivedAt time.Time
	Errors     int
}

// PoolState is the generic candidate tracker backing both the snark pool
// and the tx pool.
type PoolState struct {
	ByKey  map[[32]byte]*Candidate
	ByPeer map[PeerID]map[[32]byte]*Candidate
}

func NewPoolState() *PoolState {
	return &PoolState{
		ByKey:  make(map[[32]byte]*Candidate),
		ByPeer: make(map[PeerID]map[[32]byte]*Candidate),
	}
}
