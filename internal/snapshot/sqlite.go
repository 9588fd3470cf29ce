package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/payments-engine/internal/bank"
)

// SQLiteSink persists account snapshots to a local SQLite database. Amounts
// are stored as fixed-point strings so no precision is lost in transit.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path and ensures the
// snapshot table exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS account_snapshots (
		client INTEGER PRIMARY KEY,
		available TEXT NOT NULL,
		held TEXT NOT NULL,
		total TEXT NOT NULL,
		locked BOOLEAN NOT NULL,
		written_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// WriteSnapshot upserts one row per account inside a single transaction.
func (s *SQLiteSink) WriteSnapshot(ctx context.Context, accounts []bank.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO account_snapshots (client, available, held, total, locked)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(client) DO UPDATE SET
			available = excluded.available,
			held = excluded.held,
			total = excluded.total,
			locked = excluded.locked,
			written_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i := range accounts {
		acct := &accounts[i]
		_, err := stmt.ExecContext(ctx,
			acct.Client,
			acct.Available.StringFixed(bank.MoneyScale),
			acct.Held.StringFixed(bank.MoneyScale),
			acct.Total().StringFixed(bank.MoneyScale),
			acct.Locked,
		)
		if err != nil {
			return fmt.Errorf("failed to write snapshot for client %d: %w", acct.Client, err)
		}
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
