package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashIsSaltedAndVerifies(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("p")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("p")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct digests for the same password")
	}

	if !h.Verify(first, "p") || !h.Verify(second, "p") {
		t.Fatalf("expected both digests to verify")
	}

	if h.Verify(first, "P") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHasher_VerifyMalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, digest := range []string{"", "not-a-hash", "$2a$10$short"} {
		if h.Verify(digest, "p") {
			t.Fatalf("malformed digest %q should not verify", digest)
		}
	}
}

func TestNewHasher_ClampsCost(t *testing.T) {
	if got := NewHasher(1).cost; got != bcrypt.DefaultCost {
		t.Fatalf("low cost: got %d want %d", got, bcrypt.DefaultCost)
	}
	if got := NewHasher(99).cost; got != bcrypt.MaxCost {
		t.Fatalf("high cost: got %d want %d", got, bcrypt.MaxCost)
	}
}

func TestHasher_VerifiesAcrossCosts(t *testing.T) {
	low := NewHasher(bcrypt.MinCost)
	digest, err := low.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	// the cost is read from the digest, not the verifier
	if !NewHasher(bcrypt.DefaultCost).Verify(digest, "secret") {
		t.Fatalf("digest from a lower cost should still verify")
	}
}
