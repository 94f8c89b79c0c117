package state

// SyncPhase enumerates the sync-state variant.
type SyncPhase string

const (
	PhaseIdle                   SyncPhase = "Idle"
	PhaseBestTipAcquire         SyncPhase = "BestTipAcquire"
	PhaseRootLedgerSync         SyncPhase = "RootLedgerSync"
	PhaseStagedLedgerReconstruct SyncPhase = "StagedLedgerReconstruct"
	PhaseCatchup                SyncPhase = "Catchup"
	PhaseSynced                 SyncPhase = "Synced"
)

// LedgerQueryAttemptStatus is the per-(address,peer) attempt state.
type LedgerQueryAttemptStatus int

const (
	AttemptInit LedgerQueryAttemptStatus = iota
	AttemptPending
	AttemptError
	AttemptSuccess
)

// LedgerQueryAttempt is one peer's attempt at fetching one address.
type LedgerQueryAttempt struct {
	Peer   PeerID
	Status LedgerQueryAttemptStatus
	RPCID  int64
}

// AddrKey is the map key for a ledger address bit-path.
type AddrKey string

// LedgerSyncState is the per-target fetcher state.
type LedgerSyncState struct {
	TargetHash [32]byte

	NumAccountsAccepted uint64
	NumHashesAccepted   uint64
	NumAccountsTotal    uint64 // from the NumAccounts() probe; progress only

	Queue []AddrKey // FIFO of addresses not yet dispatched

	// Pending maps an address to its in-flight attempts keyed by peer.
	Pending map[AddrKey]map[PeerID]*LedgerQueryAttempt

	// ExpectedHash records the hash every address in Queue/Pending must
	// match once fetched.
	ExpectedHash map[AddrKey][32]byte

	NumAccountsProbePending bool
}

func NewLedgerSyncState(target [32]byte) *LedgerSyncState {
	return &LedgerSyncState{
		TargetHash:   target,
		Pending:      make(map[AddrKey]map[PeerID]*LedgerQueryAttempt),
		ExpectedHash: make(map[AddrKey][32]byte),
	}
}

// BestTipCandidate tracks one peer's reported best tip during acquisition.
type BestTipCandidate struct {
	Peer       PeerID
	Height     uint64
	StateHash  [32]byte
	RootHash   [32]byte
	DensityVRF uint64
}

// StagedLedgerSyncState is the streaming reconstructor's explicit phase
// machine.
type StagedLedgerSyncPhase string

const (
	StagedBasePending            StagedLedgerSyncPhase = "BasePending"
	StagedBaseSuccess             StagedLedgerSyncPhase = "BaseSuccess"
	StagedScanStateBasePending    StagedLedgerSyncPhase = "ScanStateBasePending"
	StagedScanStateBaseSuccess    StagedLedgerSyncPhase = "ScanStateBaseSuccess"
	StagedTreesPending             StagedLedgerSyncPhase = "TreesPending"
	StagedSuccess                  StagedLedgerSyncPhase = "Success"
)

type StagedLedgerSyncState struct {
	Sender PeerID
	Phase  StagedLedgerSyncPhase

	// BaseHash is the staged-ledger hash claimed by the "base" part,
	// recorded once in StagedBaseSuccess and promoted to
	// SyncState.RootStagedLedgerHash on StagedSuccess.
	BaseHash [32]byte

	TreesExpected int
	TreesReceived [][]byte
}

// CatchupState tracks the block-hash walk from root to best tip.
type CatchupState struct {
	Target        [32]byte
	MissingBlocks []AddrKey // block hashes, raw 32 bytes stored as AddrKey
}

// SyncState is the top-level variant covering every phase of sync.
type SyncState struct {
	Phase SyncPhase

	BestTipCandidates map[PeerID]*BestTipCandidate
	ChosenTip         *BestTipCandidate

	Ledger       *LedgerSyncState
	StagedLedger *StagedLedgerSyncState
	Catchup      *CatchupState

	// RootStagedLedgerHash is set once, when the staged-ledger reconstructor
	// reaches StagedSuccess, to the hash claimed by the base part it
	// validated against.
	RootStagedLedgerHash [32]byte
	// FrontierHeight is the height of the highest block this node has
	// applied. It only ever moves forward: a locally produced block
	// advances it by exactly one, while a catchup block raises it to that
	// block's height and so can carry it forward by more than one in a
	// single step, but it never decreases.
	FrontierHeight uint64
}
