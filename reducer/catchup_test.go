package reducer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

func newCatchingUpState(target [32]byte) *state.State {
	s := state.NewState()
	s.Sync.Phase = state.PhaseCatchup
	s.Sync.Catchup = &state.CatchupState{Target: target}
	return s
}

func TestReduceCatchupBlockResponseAdvancesFrontierHeightMonotonically(t *testing.T) {
	s := newCatchingUpState([32]byte{9})
	var h1, h2 [32]byte
	h1[0], h2[0] = 1, 2
	s, _ = reduceCatchupBlockRequest(s, action.SyncCatchupBlockRequest{Hash: h1}, time.Now())
	s, _ = reduceCatchupBlockRequest(s, action.SyncCatchupBlockRequest{Hash: h2}, time.Now())

	s, followups := reduceCatchupBlockResponse(s, action.SyncCatchupBlockResponse{Hash: h1, Height: 5}, time.Now())
	require.EqualValues(t, 5, s.Sync.FrontierHeight)
	require.Empty(t, followups, "one of two missing blocks resolved must not complete catchup yet")

	s, followups = reduceCatchupBlockResponse(s, action.SyncCatchupBlockResponse{Hash: h2, Height: 7}, time.Now())
	require.EqualValues(t, 7, s.Sync.FrontierHeight, "the frontier height must track the highest applied block")
	require.Len(t, followups, 1, "expected the phase transition to Synced once every block resolves")
}

func TestReduceCatchupBlockResponseNeverLowersFrontierHeight(t *testing.T) {
	s := newCatchingUpState([32]byte{9})
	s.Sync.FrontierHeight = 100
	var h [32]byte
	h[0] = 1
	s, _ = reduceCatchupBlockRequest(s, action.SyncCatchupBlockRequest{Hash: h}, time.Now())

	s, _ = reduceCatchupBlockResponse(s, action.SyncCatchupBlockResponse{Hash: h, Height: 3}, time.Now())
	require.EqualValues(t, 100, s.Sync.FrontierHeight, "a lower reported height must never move the frontier backward")
}
