// Package action defines the tagged Action variant tree that drives the
// reducer. Every leaf action carries an Enabled predicate that
// is the single source of truth for its dispatch precondition, following
// the node's habit (probe/handler.go's validator/heighter/inserter
// closures) of keeping protocol preconditions as small, explicit functions
// rather than scattering them across call sites.
package action

import "time"

// Kind is the flattened numeric tag of a leaf action, used for statistics
// and journaling.
type Kind uint32

const (
	KindUnknown Kind = iota

	// P2P
	KindP2PPeerConnect
	KindP2PPeerReady
	KindP2PPeerDisconnect
	KindP2PChannelSend
	KindP2PChannelMessageReceived
	KindP2PRPCInit
	KindP2PRPCTimeout
	KindP2PRPCResponse
	KindP2PDiscoveryPeersFound

	// Sync
	KindSyncBestTipRequest
	KindSyncBestTipResponse
	KindSyncLedgerQueryInit
	KindSyncLedgerQueryResponse
	KindSyncLedgerQueryError
	KindSyncStagedLedgerPartRequest
	KindSyncStagedLedgerPartResponse
	KindSyncCatchupBlockRequest
	KindSyncCatchupBlockResponse
	KindSyncPhaseTransition

	// SnarkPool
	KindSnarkPoolCandidateReceived
	KindSnarkPoolWorkFetchInit
	KindSnarkPoolWorkFetched
	KindSnarkPoolVerifyInit
	KindSnarkPoolVerified
	KindSnarkPoolEvicted

	// TxPool
	KindTxPoolCandidateReceived
	KindTxPoolWorkFetchInit
	KindTxPoolWorkFetched
	KindTxPoolVerifyInit
	KindTxPoolVerified
	KindTxPoolEvicted

	// BlockProducer
	KindBlockProducerSlotWon
	KindBlockProducerProofReady
	KindBlockProducerProofFailed
	KindBlockProducerBroadcast

	// RPC (effect-facing menu exchange)
	KindRPCMenuExchanged

	// ExternalService (timers, disk, shutdown)
	KindExternalTimerFired
	KindExternalFatalFault
)

// Action is implemented by every leaf action struct.
type Action interface {
	Kind() Kind
	// Enabled reports whether the dispatcher may act on this action given
	// the current reducer-visible state and the event-source timestamp.
	Enabled(state StateView, now time.Time) bool
}

// Erroring is implemented by every action that carries an Err field; the
// dispatcher uses it to feed status.Classify without a type switch over
// every action kind that can fail.
type Erroring interface {
	ErrVal() error
}

// StateView is the minimal read surface the Enabled predicates need. The
// concrete state.State type satisfies it; kept as an interface here so the
// action package never imports state (which imports action), matching the
// teacher's layering where leaf-level packages never import the aggregate
// they're embedded in.
type StateView interface {
	PeerIsReady(id PeerID) bool
	PeerHasCapacity(id PeerID) bool
	PeerReconnectAllowed(id PeerID, now time.Time) bool
	RPCIsPending(peer PeerID, rpcID int64) bool
	SyncPhase() string
}
