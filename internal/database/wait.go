package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"

	apperrors "migo/internal/errors"
)

const (
	readinessAttempts = 30
	readinessInterval = time.Second
)

// WaitReady blocks until Postgres at dsn accepts connections, polling at a
// fixed interval. A container reports running before the server inside it
// finishes initializing, so a bounded poll sits between the lifecycle guard
// and the first query.
func WaitReady(ctx context.Context, dsn string) error {
	slog.Info("Waiting for database to accept connections")

	backoff := retry.WithMaxRetries(readinessAttempts, retry.NewConstant(readinessInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer conn.Close(ctx)

		if err := conn.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: database not ready: %v", apperrors.ErrDatabaseFailed, err)
	}

	slog.Info("Database is ready")
	return nil
}
