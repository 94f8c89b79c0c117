package action

import "time"

// ExternalTimerFired is produced by the monotonic timer service; its
// enabling predicate re-verifies the target is still pending, so a stale
// timer racing a completion is a silent no-op rather than a bug.
type ExternalTimerFired struct {
	Target string // opaque correlation key, e.g. "rpc:<peer>:<id>"
	Peer   PeerID
	RPCID  int64
}

func (a ExternalTimerFired) Kind() Kind { return KindExternalTimerFired }
func (a ExternalTimerFired) Enabled(s StateView, now time.Time) bool {
	return s.RPCIsPending(a.Peer, a.RPCID)
}

// ExternalFatalFault marks the node shutdown-pending after a fault the
// reducer cannot recover from (arithmetic overflow on a monotonic counter,
// serialization corruption).
type ExternalFatalFault struct {
	Reason string
}

func (a ExternalFatalFault) Kind() Kind                             { return KindExternalFatalFault }
func (a ExternalFatalFault) Enabled(s StateView, now time.Time) bool { return true }
