package account

import "time"

// Clock supplies the current time so lockout expiry and token lifetimes can
// be simulated deterministically in tests.
type Clock func() time.Time

const (
	// LockoutThreshold is the failed-attempt count that arms a lock.
	LockoutThreshold = 5
	// LockoutDuration is how long an armed lock holds before it self-heals.
	LockoutDuration = 30 * time.Second
)

// LockoutPolicy decides whether an authentication attempt may proceed and
// how the failure counters evolve after an outcome. It is pure: it never
// touches storage. PGRepository applies the same transform as a single
// conditional UPDATE so concurrent failures cannot under-count; the policy
// drives the in-memory path and documents the state machine.
//
// There is a single lock mechanism: reaching the threshold zeroes the
// counter and sets LockUntil, and the lock expires on its own once the
// clock passes it. An operator lock is the same thing with a manually
// chosen LockUntil.
type LockoutPolicy struct {
	Threshold int
	Duration  time.Duration
}

func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{Threshold: LockoutThreshold, Duration: LockoutDuration}
}

// MayAttempt reports whether the account may attempt authentication at now,
// and the remaining wait when it may not. It is evaluated before password
// verification so a locked account costs no hashing work and leaks nothing
// about credential correctness.
func (p LockoutPolicy) MayAttempt(acc Account, now time.Time) (bool, time.Duration) {
	if acc.LockUntil != nil && acc.LockUntil.After(now) {
		return false, acc.LockUntil.Sub(now)
	}
	return true, 0
}

// OnFailure returns the counter and lock state after one more failed
// attempt: the counter increments, and reaching the threshold zeroes it
// and arms the lock.
func (p LockoutPolicy) OnFailure(acc Account, now time.Time) (int, *time.Time) {
	count := acc.FailedLoginCount + 1
	if count >= p.Threshold {
		until := now.Add(p.Duration)
		return 0, &until
	}
	return count, acc.LockUntil
}

// OnSuccess returns the reset state after a successful authentication.
func (p LockoutPolicy) OnSuccess() (count int, lockUntil *time.Time) {
	return 0, nil
}
