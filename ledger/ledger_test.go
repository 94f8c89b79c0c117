package ledger

import "testing"

func TestHashAccountBundleRejectsEmpty(t *testing.T) {
	if _, ok := HashAccountBundle(nil); ok {
		t.Fatalf("an empty bundle must be rejected, not hashed")
	}
}

func TestHashAccountBundleIsOrderSensitive(t *testing.T) {
	a := [][]byte{[]byte("alice"), []byte("bob")}
	b := [][]byte{[]byte("bob"), []byte("alice")}

	ha, _ := HashAccountBundle(a)
	hb, _ := HashAccountBundle(b)
	if ha == hb {
		t.Fatalf("reordering accounts within a bundle must change its hash")
	}
}

func TestHashAccountBundleDeterministic(t *testing.T) {
	accounts := [][]byte{[]byte("alice"), []byte("bob")}
	h1, _ := HashAccountBundle(accounts)
	h2, _ := HashAccountBundle(accounts)
	if h1 != h2 {
		t.Fatalf("hashing the same bundle twice must be deterministic")
	}
}

func TestHashCombineFoldsDepthToPreventCollisionWithLeafHash(t *testing.T) {
	left := [32]byte{1}
	right := [32]byte{2}

	h1 := HashCombine(left, right, 1)
	h2 := HashCombine(left, right, 2)
	if h1 == h2 {
		t.Fatalf("the same children at different depths must hash differently")
	}
}

func TestHashCombineOrderSensitive(t *testing.T) {
	left := [32]byte{1}
	right := [32]byte{2}
	if HashCombine(left, right, 0) == HashCombine(right, left, 0) {
		t.Fatalf("swapping left and right children must change the combined hash")
	}
}
