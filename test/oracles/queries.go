package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			// A stored counter at or above the threshold means an increment
			// escaped the conditional reset.
			Name: "O1_counter_bounds",
			SQL: `SELECT id, failed_login_count FROM accounts
                  WHERE failed_login_count < 0 OR failed_login_count >= 5`,
		},
		{
			Name: "O2_password_never_plaintext",
			SQL:  `SELECT id FROM accounts WHERE password_hash NOT LIKE '$2%'`,
		},
		{
			Name: "O3_phone_canonical",
			SQL:  `SELECT id, phone FROM accounts WHERE phone !~ '^09[0-9]{9}$'`,
		},
		{
			Name: "O4_email_unique_ci",
			SQL: `SELECT lower(email), COUNT(*) FROM accounts
                  GROUP BY lower(email) HAVING COUNT(*) > 1`,
		},
		{
			Name: "O5_phone_unique",
			SQL: `SELECT phone, COUNT(*) FROM accounts
                  GROUP BY phone HAVING COUNT(*) > 1`,
		},
		{
			// Locks are always armed for exactly the lockout duration; one
			// further in the future means a double-add.
			Name: "O6_lock_horizon_bounded",
			SQL: `SELECT id, lock_until FROM accounts
                  WHERE lock_until > now() + interval '31 seconds'`,
		},
		{
			Name: "O7_audit_actions_known",
			SQL: `SELECT id, action FROM audit_logs
                  WHERE action NOT IN ('register','login','logout','lockout','profile_update')`,
		},
		{
			Name: "O8_audit_not_orphaned",
			SQL: `SELECT a.id, a.account_id FROM audit_logs a
                  WHERE a.account_id IS NOT NULL
                    AND NOT EXISTS (SELECT 1 FROM accounts acc WHERE acc.id = a.account_id)`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
