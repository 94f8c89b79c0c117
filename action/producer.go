package action

import "time"

// BlockProducerSlotWon fires when the VRF service reports this node won the
// current slot.
type BlockProducerSlotWon struct {
	Slot uint64
	VRFOutput [32]byte
}

func (a BlockProducerSlotWon) Kind() Kind                             { return KindBlockProducerSlotWon }
func (a BlockProducerSlotWon) Enabled(s StateView, now time.Time) bool { return true }

// BlockProducerProofReady carries a completed block proof; the job can take
// many seconds and never blocks the reducer.
type BlockProducerProofReady struct {
	Slot  uint64
	Block []byte
	Proof []byte
}

func (a BlockProducerProofReady) Kind() Kind                             { return KindBlockProducerProofReady }
func (a BlockProducerProofReady) Enabled(s StateView, now time.Time) bool { return true }

// BlockProducerProofFailed carries a ProverFailure for a slot; the candidate
// block is dropped for that slot and the failure is logged. The job is not
// requeued.
type BlockProducerProofFailed struct {
	Slot uint64
	Err  error
}

func (a BlockProducerProofFailed) Kind() Kind                             { return KindBlockProducerProofFailed }
func (a BlockProducerProofFailed) Enabled(s StateView, now time.Time) bool { return true }
func (a BlockProducerProofFailed) ErrVal() error                          { return a.Err }

// BlockProducerBroadcast asks the dispatcher to gossip a freshly produced
// block to peers.
type BlockProducerBroadcast struct {
	Slot  uint64
	Block []byte
}

func (a BlockProducerBroadcast) Kind() Kind                             { return KindBlockProducerBroadcast }
func (a BlockProducerBroadcast) Enabled(s StateView, now time.Time) bool { return true }
