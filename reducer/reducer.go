// Package reducer implements the pure (State, Action, timestamp) -> (State,
// []Action) function described in the design. No reducer function may call a
// service; all I/O is requested via the returned follow-up actions, which
// the dispatch package later turns into service calls.
package reducer

import (
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/log"
	"github.com/mina-go/node/state"
)

var logger = log.New("pkg", "reducer")

// Reduce is the single entry point: one big exhaustive switch over action
// kinds, each delegating to a small total function, mirroring the node's
// preference for many small unexported step functions over one giant method
// body (see core/state/journal.go's per-entry revert methods).
func Reduce(s *state.State, a action.Action, now time.Time) (*state.State, []action.Action) {
	if s.ShutdownPending {
		return s, nil
	}
	if !a.Enabled(s, now) {
		logger.Debug("dropping disabled action", "kind", a.Kind())
		return s, nil
	}
	s.Now = now

	switch v := a.(type) {
	case action.P2PPeerConnect:
		return reducePeerConnect(s, v, now)
	case action.P2PPeerReady:
		return reducePeerReady(s, v, now)
	case action.P2PPeerDisconnect:
		return reducePeerDisconnect(s, v, now)
	case action.P2PChannelSend:
		return reduceChannelSend(s, v, now)
	case action.P2PChannelMessageReceived:
		return reduceChannelMessageReceived(s, v, now)
	case action.P2PRPCInit:
		return reduceRPCInit(s, v, now)
	case action.P2PRPCTimeout:
		return reduceRPCTimeout(s, v, now)
	case action.P2PRPCResponse:
		return reduceRPCResponse(s, v, now)
	case action.P2PDiscoveryPeersFound:
		return reduceDiscoveryPeersFound(s, v, now)

	case action.SyncBestTipRequest:
		return reduceBestTipRequest(s, v, now)
	case action.SyncBestTipResponse:
		return reduceBestTipResponse(s, v, now)
	case action.SyncPhaseTransition:
		return reducePhaseTransition(s, v, now)

	case action.SyncLedgerQueryInit:
		return reduceLedgerQueryInit(s, v, now)
	case action.SyncLedgerQueryResponse:
		return reduceLedgerQueryResponse(s, v, now)
	case action.SyncLedgerQueryError:
		return reduceLedgerQueryError(s, v, now)

	case action.SyncStagedLedgerPartRequest:
		return reduceStagedPartRequest(s, v, now)
	case action.SyncStagedLedgerPartResponse:
		return reduceStagedPartResponse(s, v, now)

	case action.SyncCatchupBlockRequest:
		return reduceCatchupBlockRequest(s, v, now)
	case action.SyncCatchupBlockResponse:
		return reduceCatchupBlockResponse(s, v, now)

	case action.SnarkPoolCandidateReceived:
		return reduceSnarkCandidateReceived(s, v, now)
	case action.SnarkPoolWorkFetchInit:
		return reduceSnarkWorkFetchInit(s, v, now)
	case action.SnarkPoolWorkFetched:
		return reduceSnarkWorkFetched(s, v, now)
	case action.SnarkPoolVerifyInit:
		return reduceSnarkVerifyInit(s, v, now)
	case action.SnarkPoolVerified:
		return reduceSnarkVerified(s, v, now)
	case action.SnarkPoolEvicted:
		return reduceSnarkEvicted(s, v, now)

	case action.TxPoolCandidateReceived:
		return reduceTxCandidateReceived(s, v, now)
	case action.TxPoolWorkFetchInit:
		return reduceTxWorkFetchInit(s, v, now)
	case action.TxPoolWorkFetched:
		return reduceTxWorkFetched(s, v, now)
	case action.TxPoolVerifyInit:
		return reduceTxVerifyInit(s, v, now)
	case action.TxPoolVerified:
		return reduceTxVerified(s, v, now)
	case action.TxPoolEvicted:
		return reduceTxEvicted(s, v, now)

	case action.BlockProducerSlotWon:
		return reduceSlotWon(s, v, now)
	case action.BlockProducerProofReady:
		return reduceProofReady(s, v, now)
	case action.BlockProducerProofFailed:
		return reduceProofFailed(s, v, now)
	case action.BlockProducerBroadcast:
		return reduceBroadcast(s, v, now)

	case action.ExternalTimerFired:
		return reduceExternalTimerFired(s, v, now)

	case action.ExternalFatalFault:
		s.ShutdownPending = true
		s.ShutdownReason = v.Reason
		logger.Crit("fatal fault, shutdown pending", "reason", v.Reason)
		return s, nil

	default:
		logger.Warn("unhandled action kind", "kind", a.Kind())
		return s, nil
	}
}
