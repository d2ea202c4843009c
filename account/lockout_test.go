package account

import (
	"testing"
	"time"
)

func TestLockoutPolicy_MayAttempt(t *testing.T) {
	policy := DefaultLockoutPolicy()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if ok, _ := policy.MayAttempt(Account{}, now); !ok {
		t.Fatal("unlocked account must be allowed to attempt")
	}

	past := now.Add(-time.Second)
	if ok, _ := policy.MayAttempt(Account{LockUntil: &past}, now); !ok {
		t.Fatal("expired lock must not block attempts")
	}

	future := now.Add(12 * time.Second)
	ok, retryAfter := policy.MayAttempt(Account{LockUntil: &future}, now)
	if ok {
		t.Fatal("active lock must block attempts")
	}
	if retryAfter != 12*time.Second {
		t.Fatalf("expected 12s remaining, got %v", retryAfter)
	}
}

func TestLockoutPolicy_OnFailure(t *testing.T) {
	policy := DefaultLockoutPolicy()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	count, lockUntil := policy.OnFailure(Account{FailedLoginCount: 0}, now)
	if count != 1 || lockUntil != nil {
		t.Fatalf("first failure: got count=%d lock=%v", count, lockUntil)
	}

	count, lockUntil = policy.OnFailure(Account{FailedLoginCount: policy.Threshold - 1}, now)
	if count != 0 {
		t.Fatalf("threshold failure must zero the counter, got %d", count)
	}
	if lockUntil == nil || !lockUntil.Equal(now.Add(policy.Duration)) {
		t.Fatalf("threshold failure must arm the lock until %v, got %v", now.Add(policy.Duration), lockUntil)
	}
}

func TestLockoutPolicy_OnFailureKeepsExistingLock(t *testing.T) {
	policy := DefaultLockoutPolicy()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	existing := now.Add(time.Minute)

	count, lockUntil := policy.OnFailure(Account{FailedLoginCount: 1, LockUntil: &existing}, now)
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if lockUntil == nil || !lockUntil.Equal(existing) {
		t.Fatalf("sub-threshold failure must not touch the lock, got %v", lockUntil)
	}
}

func TestLockoutPolicy_OnSuccess(t *testing.T) {
	count, lockUntil := DefaultLockoutPolicy().OnSuccess()
	if count != 0 || lockUntil != nil {
		t.Fatalf("success must clear state, got count=%d lock=%v", count, lockUntil)
	}
}
