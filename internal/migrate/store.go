package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "migo/internal/errors"
)

const (
	createMigrationsTable = `
		CREATE TABLE IF NOT EXISTS __migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(50) NOT NULL,
			head INT NOT NULL
		);`

	selectMigrationHead = `SELECT head FROM __migrations ORDER BY head DESC LIMIT 1;`

	insertMigrationRow = `INSERT INTO __migrations (name, head) VALUES ($1, $2);`
)

// Store is the bookkeeping side of the migrator: the __migrations table
// tracking which script index has been applied.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Head(ctx context.Context) (int, error)
	Apply(ctx context.Context, script Script, sql string) error
	Close(ctx context.Context) error
}

// PostgresStore implements Store on a single pgx connection.
type PostgresStore struct {
	conn *pgx.Conn
}

// Connect opens a Postgres connection for migration bookkeeping.
func Connect(ctx context.Context, dsn string) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", apperrors.ErrDatabaseFailed, dsn, err)
	}

	return &PostgresStore{conn: conn}, nil
}

// EnsureSchema creates the __migrations table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// Head returns the index of the latest applied migration, 0 when none.
func (s *PostgresStore) Head(ctx context.Context) (int, error) {
	var head int
	err := s.conn.QueryRow(ctx, selectMigrationHead).Scan(&head)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read migration head: %w", err)
	}
	return head, nil
}

// Apply executes the script body and records its bookkeeping row in a single
// transaction, so a failing script leaves no trace.
func (s *PostgresStore) Apply(ctx context.Context, script Script, sql string) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migration %q failed: %w", script.Name, err)
	}

	if _, err := tx.Exec(ctx, insertMigrationRow, script.Name, script.Index); err != nil {
		return fmt.Errorf("failed to record migration %q: %w", script.Name, err)
	}

	return tx.Commit(ctx)
}

// Close releases the underlying connection.
func (s *PostgresStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
