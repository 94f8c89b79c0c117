package action

import "time"

// JobID identifies a scan-state SNARK work job.
type JobID [32]byte

// TxHash identifies a pooled transaction.
type TxHash [32]byte

// SnarkPoolCandidateReceived is emitted when a peer gossips a completed-work
// proof summary.
type SnarkPoolCandidateReceived struct {
	Peer PeerID
	Job  JobID
	Fee  uint64
}

func (a SnarkPoolCandidateReceived) Kind() Kind                             { return KindSnarkPoolCandidateReceived }
func (a SnarkPoolCandidateReceived) Enabled(s StateView, now time.Time) bool { return true }

// SnarkPoolWorkFetchInit asks the dispatcher to pull the completed-work
// proof bytes for Job from the peer that advertised it (-> WorkFetchPending).
type SnarkPoolWorkFetchInit struct {
	Peer PeerID
	Job  JobID
}

func (a SnarkPoolWorkFetchInit) Kind() Kind { return KindSnarkPoolWorkFetchInit }
func (a SnarkPoolWorkFetchInit) Enabled(s StateView, now time.Time) bool {
	return s.PeerIsReady(a.Peer)
}

// SnarkPoolWorkFetched carries the fetched proof bytes (-> Fetched).
type SnarkPoolWorkFetched struct {
	Peer PeerID
	Job  JobID
	Proof []byte
	Err  error
}

func (a SnarkPoolWorkFetched) Kind() Kind                             { return KindSnarkPoolWorkFetched }
func (a SnarkPoolWorkFetched) Enabled(s StateView, now time.Time) bool { return true }
func (a SnarkPoolWorkFetched) ErrVal() error                          { return a.Err }

// SnarkPoolVerifyInit hands a fetched proof to the prover service
// (-> VerifyPending).
type SnarkPoolVerifyInit struct {
	Job JobID
}

func (a SnarkPoolVerifyInit) Kind() Kind                             { return KindSnarkPoolVerifyInit }
func (a SnarkPoolVerifyInit) Enabled(s StateView, now time.Time) bool { return true }

// SnarkPoolVerified carries the prover's verdict (-> VerifyPending -> Success|Error).
type SnarkPoolVerified struct {
	Job JobID
	OK  bool
}

func (a SnarkPoolVerified) Kind() Kind                             { return KindSnarkPoolVerified }
func (a SnarkPoolVerified) Enabled(s StateView, now time.Time) bool { return true }

// SnarkPoolEvicted fires when a superseding entry replaces an inferior one
// for the same job id.
type SnarkPoolEvicted struct {
	Job JobID
}

func (a SnarkPoolEvicted) Kind() Kind                             { return KindSnarkPoolEvicted }
func (a SnarkPoolEvicted) Enabled(s StateView, now time.Time) bool { return true }

// TxPoolCandidateReceived mirrors SnarkPoolCandidateReceived for transactions.
type TxPoolCandidateReceived struct {
	Peer PeerID
	Hash TxHash
	Fee  uint64
}

func (a TxPoolCandidateReceived) Kind() Kind                             { return KindTxPoolCandidateReceived }
func (a TxPoolCandidateReceived) Enabled(s StateView, now time.Time) bool { return true }

// TxPoolWorkFetchInit asks the dispatcher to pull the full transaction body
// for Hash from its source peer (-> WorkFetchPending), mirroring
// SnarkPoolWorkFetchInit.
type TxPoolWorkFetchInit struct {
	Peer PeerID
	Hash TxHash
}

func (a TxPoolWorkFetchInit) Kind() Kind { return KindTxPoolWorkFetchInit }
func (a TxPoolWorkFetchInit) Enabled(s StateView, now time.Time) bool {
	return s.PeerIsReady(a.Peer)
}

// TxPoolWorkFetched carries the fetched transaction body (-> Fetched).
type TxPoolWorkFetched struct {
	Peer PeerID
	Hash TxHash
	Body []byte
	Err  error
}

func (a TxPoolWorkFetched) Kind() Kind                             { return KindTxPoolWorkFetched }
func (a TxPoolWorkFetched) Enabled(s StateView, now time.Time) bool { return true }
func (a TxPoolWorkFetched) ErrVal() error                          { return a.Err }

// TxPoolVerifyInit hands a fetched transaction body to the verifier
// (-> VerifyPending).
type TxPoolVerifyInit struct {
	Hash TxHash
}

func (a TxPoolVerifyInit) Kind() Kind                             { return KindTxPoolVerifyInit }
func (a TxPoolVerifyInit) Enabled(s StateView, now time.Time) bool { return true }

// TxPoolVerified carries the verification verdict for a pooled transaction.
type TxPoolVerified struct {
	Hash TxHash
	OK   bool
}

func (a TxPoolVerified) Kind() Kind                             { return KindTxPoolVerified }
func (a TxPoolVerified) Enabled(s StateView, now time.Time) bool { return true }

// TxPoolEvicted fires on same-account/nonce supersession.
type TxPoolEvicted struct {
	Hash TxHash
}

func (a TxPoolEvicted) Kind() Kind                             { return KindTxPoolEvicted }
func (a TxPoolEvicted) Enabled(s StateView, now time.Time) bool { return true }
