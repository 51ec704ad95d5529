package migrate

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "migo/internal/errors"
)

// Migrator applies numbered SQL scripts from a directory against a Store.
type Migrator struct {
	store Store
	dir   string
}

// New creates a Migrator reading scripts from dir.
func New(store Store, dir string) *Migrator {
	return &Migrator{
		store: store,
		dir:   dir,
	}
}

// Entry is one migration with its applied flag, for listings.
type Entry struct {
	Script  Script
	Applied bool
}

// Up applies every pending migration in index order and returns how many
// scripts ran. The head is re-read before each script rather than cached
// across the loop.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.store.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrMigrationFailed, err)
	}

	scripts, err := discoverScripts(m.dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrMigrationFailed, err)
	}

	applied := 0
	for _, script := range scripts {
		head, err := m.store.Head(ctx)
		if err != nil {
			return applied, fmt.Errorf("%w: %v", apperrors.ErrMigrationFailed, err)
		}

		// Already applied in a previous run.
		if script.Index <= head {
			continue
		}

		sql, err := readScript(m.dir, script)
		if err != nil {
			return applied, fmt.Errorf("%w: %v", apperrors.ErrMigrationFailed, err)
		}

		slog.Info("Running migration", "script", script.Name, "index", script.Index)
		if err := m.store.Apply(ctx, script, sql); err != nil {
			return applied, fmt.Errorf("%w: %v", apperrors.ErrMigrationFailed, err)
		}

		applied++
	}

	return applied, nil
}

// List reports every migration script with its applied state.
func (m *Migrator) List(ctx context.Context) ([]Entry, error) {
	if err := m.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMigrationFailed, err)
	}

	scripts, err := discoverScripts(m.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMigrationFailed, err)
	}

	head, err := m.store.Head(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMigrationFailed, err)
	}

	entries := make([]Entry, 0, len(scripts))
	for _, script := range scripts {
		entries = append(entries, Entry{
			Script:  script,
			Applied: script.Index <= head,
		})
	}

	return entries, nil
}
