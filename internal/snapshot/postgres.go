package snapshot

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/payments-engine/internal/bank"
)

// PostgresSink persists account snapshots to PostgreSQL. Amounts use NUMERIC
// so the database keeps the exact decimal values.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to the database and ensures the snapshot table
// exists.
func NewPostgresSink(ctx context.Context, databaseURL string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS account_snapshots (
		client INTEGER PRIMARY KEY,
		available NUMERIC(20, 4) NOT NULL,
		held NUMERIC(20, 4) NOT NULL,
		total NUMERIC(20, 4) NOT NULL,
		locked BOOLEAN NOT NULL,
		written_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &PostgresSink{pool: pool}, nil
}

// WriteSnapshot upserts one row per account.
func (s *PostgresSink) WriteSnapshot(ctx context.Context, accounts []bank.Account) error {
	for i := range accounts {
		acct := &accounts[i]
		_, err := s.pool.Exec(ctx, `
			INSERT INTO account_snapshots (client, available, held, total, locked)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (client) DO UPDATE SET
				available = EXCLUDED.available,
				held = EXCLUDED.held,
				total = EXCLUDED.total,
				locked = EXCLUDED.locked,
				written_at = CURRENT_TIMESTAMP
		`,
			int64(acct.Client),
			acct.Available.StringFixed(bank.MoneyScale),
			acct.Held.StringFixed(bank.MoneyScale),
			acct.Total().StringFixed(bank.MoneyScale),
			acct.Locked,
		)
		if err != nil {
			return fmt.Errorf("failed to write snapshot for client %d: %w", acct.Client, err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
