package account

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// TestAccountRepository_Integration connects to a real PostgreSQL via
// DATABASE_URL and verifies the repository against the live schema,
// including the atomicity of the failure counter.
func TestAccountRepository_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is empty; set it to a live PostgreSQL to run integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	defer pool.Close()

	if !tableExists(ctx, t, pool, "accounts") {
		t.Skip("database schema missing; apply migrations/ first")
	}

	repo := NewRepository(pool)
	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("itest+%d@example.com", suffix)
	phone := fmt.Sprintf("09%09d", suffix%1_000_000_000)

	acc, err := repo.Create(ctx, CreateParams{
		Email:        email,
		Phone:        phone,
		FirstName:    "Ali",
		LastName:     "Rezaei",
		PasswordHash: "$2a$10$integrationfixturehashvalue000000000000000000000000000",
		Role:         RoleCustomer,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	t.Cleanup(func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel2()
		pool.Exec(ctx2, `DELETE FROM audit_logs WHERE account_id = $1`, acc.ID)
		pool.Exec(ctx2, `DELETE FROM accounts WHERE id = $1`, acc.ID)
	})

	// duplicate email collides case-insensitively on the unique index
	_, err = repo.Create(ctx, CreateParams{
		Email:        fmt.Sprintf("ITEST+%d@example.com", suffix),
		Phone:        "09000000001",
		FirstName:    "Sara",
		LastName:     "Karimi",
		PasswordHash: "$2a$10$integrationfixturehashvalue000000000000000000000000000",
		Role:         RoleCustomer,
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// duplicate phone maps through its own constraint
	_, err = repo.Create(ctx, CreateParams{
		Email:        fmt.Sprintf("other+%d@example.com", suffix),
		Phone:        phone,
		FirstName:    "Sara",
		LastName:     "Karimi",
		PasswordHash: "$2a$10$integrationfixturehashvalue000000000000000000000000000",
		Role:         RoleCustomer,
	})
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Fatalf("expected ErrDuplicatePhone, got %v", err)
	}

	// lookups by every key
	if got, err := repo.FindByEmail(ctx, fmt.Sprintf("ITEST+%d@EXAMPLE.COM", suffix)); err != nil || got.ID != acc.ID {
		t.Fatalf("find by email (case-insensitive): got %v err %v", got.ID, err)
	}
	if got, err := repo.FindByPhone(ctx, phone); err != nil || got.ID != acc.ID {
		t.Fatalf("find by phone: got %v err %v", got.ID, err)
	}
	if _, err := repo.FindByID(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	policy := DefaultLockoutPolicy()
	now := time.Now().UTC()

	// Concurrent sub-threshold failures must count exactly once each: the
	// conditional UPDATE serializes on the row.
	concurrent := policy.Threshold - 1
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrent; i++ {
		g.Go(func() error {
			_, err := repo.RecordFailure(gctx, acc.ID, policy, now)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent record failure: %v", err)
	}

	got, err := repo.FindByID(ctx, acc.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.FailedLoginCount != concurrent {
		t.Fatalf("expected counter %d after %d concurrent failures, got %d",
			concurrent, concurrent, got.FailedLoginCount)
	}
	if got.LockUntil != nil {
		t.Fatalf("lock armed below threshold: %v", got.LockUntil)
	}

	// one more failure crosses the threshold: counter resets, lock arms
	got, err = repo.RecordFailure(ctx, acc.ID, policy, now)
	if err != nil {
		t.Fatalf("threshold failure: %v", err)
	}
	if got.FailedLoginCount != 0 {
		t.Fatalf("expected counter reset at threshold, got %d", got.FailedLoginCount)
	}
	if got.LockUntil == nil {
		t.Fatal("expected lock to be armed at threshold")
	}

	// success clears everything and stamps the login
	got, err = repo.RecordSuccess(ctx, acc.ID, now, "192.0.2.9")
	if err != nil {
		t.Fatalf("record success: %v", err)
	}
	if got.FailedLoginCount != 0 || got.LockUntil != nil {
		t.Fatalf("expected clean state after success, got count=%d lock=%v",
			got.FailedLoginCount, got.LockUntil)
	}
	if got.LastLogin == nil || got.LastLoginOrigin == nil || *got.LastLoginOrigin != "192.0.2.9" {
		t.Fatalf("expected last-login stamp, got %v / %v", got.LastLogin, got.LastLoginOrigin)
	}

	// partial profile update touches only the present fields
	country := "IR"
	got, err = repo.UpdateProfile(ctx, acc.ID, ProfileUpdate{Country: &country})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if got.Country != "IR" || got.FirstName != "Ali" {
		t.Fatalf("unexpected profile state: %+v", got)
	}
}

func tableExists(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`, name).Scan(&exists)
	if err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}
	return exists
}
