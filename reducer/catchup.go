// Catchup walks the block-hash chain from the synced root forward to the
// chosen best tip, fetching whatever blocks are missing in between and
// applying them once their parent is already present.
package reducer

import (
	"time"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

func reduceCatchupBlockRequest(s *state.State, a action.SyncCatchupBlockRequest, now time.Time) (*state.State, []action.Action) {
	cu := s.Sync.Catchup
	if cu == nil {
		return s, nil
	}
	key := state.AddrKey(a.Hash[:])
	for _, k := range cu.MissingBlocks {
		if k == key {
			return s, nil
		}
	}
	cu.MissingBlocks = append(cu.MissingBlocks, key)
	return s, nil
}

func reduceCatchupBlockResponse(s *state.State, a action.SyncCatchupBlockResponse, now time.Time) (*state.State, []action.Action) {
	cu := s.Sync.Catchup
	if cu == nil {
		return s, nil
	}
	key := state.AddrKey(a.Hash[:])
	idx := -1
	for i, k := range cu.MissingBlocks {
		if k == key {
			idx = i
			break
		}
	}
	if idx == -1 {
		return s, nil
	}
	if a.Err != nil {
		// Leave it in MissingBlocks; no request is reissued from here.
		return s, nil
	}
	cu.MissingBlocks = append(cu.MissingBlocks[:idx], cu.MissingBlocks[idx+1:]...)
	// Applying a block extends the frontier; catchup can step it forward by
	// more than one at a re-root boundary, but it must never move backward.
	if a.Height > s.Sync.FrontierHeight {
		s.Sync.FrontierHeight = a.Height
	}
	if len(cu.MissingBlocks) == 0 {
		return s, []action.Action{action.SyncPhaseTransition{
			From: string(state.PhaseCatchup), To: string(state.PhaseSynced),
			Reason: "all missing blocks applied",
		}}
	}
	return s, nil
}
