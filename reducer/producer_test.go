package reducer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

func TestReduceBroadcastExtendsFrontierHeightByOne(t *testing.T) {
	s := state.NewState()
	s.Sync.FrontierHeight = 41

	s, followups := reduceBroadcast(s, action.BlockProducerBroadcast{Slot: 7}, time.Now())
	require.EqualValues(t, 42, s.Sync.FrontierHeight, "a locally produced block always builds on the current tip")
	require.Empty(t, followups)
}

func TestReduceProofReadyDispatchesBroadcast(t *testing.T) {
	s := state.NewState()
	_, followups := reduceProofReady(s, action.BlockProducerProofReady{Slot: 3, Block: []byte("block")}, time.Now())

	require.Len(t, followups, 1)
	b, ok := followups[0].(action.BlockProducerBroadcast)
	require.True(t, ok, "expected BlockProducerBroadcast, got %v", followups[0])
	require.EqualValues(t, 3, b.Slot)
}
