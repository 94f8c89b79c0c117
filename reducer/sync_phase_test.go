package reducer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/state"
)

func TestSelectBestTipRequiresAgreementThreshold(t *testing.T) {
	candidates := map[state.PeerID]*state.BestTipCandidate{
		{1}: {Peer: state.PeerID{1}, Height: 10, RootHash: [32]byte{1}},
	}
	if got := selectBestTip(candidates); got != nil {
		t.Fatalf("a single candidate must not reach agreement, got %+v", got)
	}
}

func TestSelectBestTipPrefersHeightThenDensity(t *testing.T) {
	lowRoot := [32]byte{1}
	highRoot := [32]byte{2}
	candidates := map[state.PeerID]*state.BestTipCandidate{
		{1}: {Peer: state.PeerID{1}, Height: 10, RootHash: lowRoot, DensityVRF: 5},
		{2}: {Peer: state.PeerID{2}, Height: 10, RootHash: lowRoot, DensityVRF: 5},
		{3}: {Peer: state.PeerID{3}, Height: 20, RootHash: highRoot, DensityVRF: 1},
		{4}: {Peer: state.PeerID{4}, Height: 20, RootHash: highRoot, DensityVRF: 1},
	}
	want := &state.BestTipCandidate{Peer: state.PeerID{3}, Height: 20, RootHash: highRoot, DensityVRF: 1}
	got := selectBestTip(candidates)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expected the higher (agreeing) height to win (-want +got):\n%s", diff)
	}
}

func TestSelectBestTipBreaksTieOnDensity(t *testing.T) {
	rootA := [32]byte{1}
	rootB := [32]byte{2}
	candidates := map[state.PeerID]*state.BestTipCandidate{
		{1}: {Peer: state.PeerID{1}, Height: 10, RootHash: rootA, DensityVRF: 3},
		{2}: {Peer: state.PeerID{2}, Height: 10, RootHash: rootA, DensityVRF: 3},
		{3}: {Peer: state.PeerID{3}, Height: 10, RootHash: rootB, DensityVRF: 9},
		{4}: {Peer: state.PeerID{4}, Height: 10, RootHash: rootB, DensityVRF: 9},
	}
	got := selectBestTip(candidates)
	if got == nil || got.RootHash != rootB {
		t.Fatalf("expected the higher-density root to win an equal-height tie, got %+v", got)
	}
}

// TestSelectBestTipDeterministicOnFullTie covers two (height, root) keys
// that agree on both height and density: the only thing left to break the
// tie is root bytes, and the result must be identical on every call, never
// a function of Go's randomized map-iteration order.
func TestSelectBestTipDeterministicOnFullTie(t *testing.T) {
	lowRoot := [32]byte{1}
	highRoot := [32]byte{2}
	candidates := map[state.PeerID]*state.BestTipCandidate{
		{1}: {Peer: state.PeerID{1}, Height: 10, RootHash: lowRoot, DensityVRF: 4},
		{2}: {Peer: state.PeerID{2}, Height: 10, RootHash: lowRoot, DensityVRF: 4},
		{3}: {Peer: state.PeerID{3}, Height: 10, RootHash: highRoot, DensityVRF: 4},
		{4}: {Peer: state.PeerID{4}, Height: 10, RootHash: highRoot, DensityVRF: 4},
	}
	for i := 0; i < 50; i++ {
		got := selectBestTip(candidates)
		if got == nil || got.RootHash != highRoot {
			t.Fatalf("expected the lexicographically larger root to win a full tie deterministically, got %+v", got)
		}
	}
}

func TestReduceBestTipResponseTransitionsOnceThresholdReached(t *testing.T) {
	s := state.NewState()
	s.Sync.Phase = state.PhaseBestTipAcquire

	s, followups := reduceBestTipResponse(s, action.SyncBestTipResponse{
		Peer: state.PeerID{1}, Height: 5, RootHash: [32]byte{9},
	}, time.Now())
	if len(followups) != 0 {
		t.Fatalf("one response must not be enough to commit, got %v", followups)
	}

	s, followups = reduceBestTipResponse(s, action.SyncBestTipResponse{
		Peer: state.PeerID{2}, Height: 5, RootHash: [32]byte{9},
	}, time.Now())
	if len(followups) != 1 {
		t.Fatalf("expected a phase transition once two peers agree, got %v", followups)
	}
	if s.Sync.ChosenTip == nil || s.Sync.ChosenTip.RootHash != [32]byte{9} {
		t.Fatalf("expected ChosenTip set to the agreed root, got %+v", s.Sync.ChosenTip)
	}
}
