package account

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	ok, err := hasher.Verify("secret1", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = hasher.Verify("wrong-pass", hash)
	if err != nil {
		t.Fatalf("verify mismatch: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected salted hashes to differ")
	}
}

func TestHasher_MalformedStoredHash(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	if _, err := hasher.Verify("secret1", "plaintext-left-over"); err == nil {
		t.Fatal("expected an error for a malformed stored hash")
	}
}

func TestNewHasher_ClampsCost(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		hash, err := NewHasher(cost).Hash("secret1")
		if err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
		actual, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			t.Fatalf("read cost: %v", err)
		}
		if actual != bcrypt.DefaultCost {
			t.Fatalf("expected default cost for %d, got %d", cost, actual)
		}
	}
}
