package app

import (
	"context"
	"fmt"
	"log/slog"

	"migo/internal/database"
	"migo/internal/guard"
	"migo/internal/migrate"
	"migo/internal/parser"
	"migo/internal/runtime"
	"migo/pkg/stack"
)

const (
	// Color codes for console output
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
)

// Options control a full Up run.
type Options struct {
	StackPath   string
	DSN         string
	SkipMigrate bool
}

// Up brings the development database up end to end: ensure the container is
// running, wait for Postgres to accept connections, then apply pending
// migrations. Every stage is idempotent, so re-running after a failure
// resumes where the failed run left off.
func Up(ctx context.Context, opts Options) error {
	slog.Info("Starting migo up workflow", "stackPath", opts.StackPath, "skipMigrate", opts.SkipMigrate)

	s, err := parser.Parse(opts.StackPath)
	if err != nil {
		return fmt.Errorf("stack parsing failed: %w", err)
	}

	// Stage 1: Database container
	fmt.Printf("%sStage 1: Ensuring database container is running%s\n", ColorCyan, ColorReset)
	outcome, err := ensureDatabaseStage(ctx, s)
	if err != nil {
		return fmt.Errorf("database stage failed: %w", err)
	}
	fmt.Println()

	// Stage 2: Readiness
	fmt.Printf("%sStage 2: Waiting for database readiness%s\n", ColorBlue, ColorReset)
	dsn := parser.ResolveDSN(s, opts.DSN)
	if err := database.WaitReady(ctx, dsn); err != nil {
		return fmt.Errorf("readiness stage failed: %w", err)
	}
	fmt.Printf("%s✅ Database is accepting connections%s\n", ColorGreen, ColorReset)
	fmt.Println()

	// Stage 3: Migrations
	if opts.SkipMigrate {
		fmt.Printf("%s⏭️  Stage 3: Migrations (skipped)%s\n", ColorYellow, ColorReset)
	} else {
		fmt.Printf("%sStage 3: Applying migrations%s\n", ColorCyan, ColorReset)
		if err := migrateStage(ctx, s, dsn); err != nil {
			return fmt.Errorf("migration stage failed: %w", err)
		}
	}
	fmt.Println()

	fmt.Printf("%s🎉 Database '%s' is up (%s)%s\n", ColorGreen, s.Database.Name, outcome, ColorReset)
	slog.Info("migo up workflow completed successfully", "database", s.Database.Name, "outcome", string(outcome))
	return nil
}

// ensureDatabaseStage runs the lifecycle guard against the configured container.
func ensureDatabaseStage(ctx context.Context, s *stack.Stack) (guard.Outcome, error) {
	dockerRuntime, err := runtime.NewDockerRuntime()
	if err != nil {
		return "", err
	}

	g := guard.New(dockerRuntime)
	outcome, err := g.EnsureRunning(ctx, s.Database.RunSpec())
	if err != nil {
		return "", err
	}

	switch outcome {
	case guard.OutcomeAlreadyRunning:
		fmt.Printf("%s✅ Container '%s' already running%s\n", ColorGreen, s.Database.Name, ColorReset)
	case guard.OutcomeRecreated:
		fmt.Printf("%s✅ Container '%s' recreated from stopped state%s\n", ColorGreen, s.Database.Name, ColorReset)
	default:
		fmt.Printf("%s✅ Container '%s' started%s\n", ColorGreen, s.Database.Name, ColorReset)
	}

	return outcome, nil
}

// migrateStage applies pending migrations from the configured directory.
func migrateStage(ctx context.Context, s *stack.Stack, dsn string) error {
	store, err := migrate.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			slog.Warn("Failed to close migration store", "error", err)
		}
	}()

	migrator := migrate.New(store, s.Migrations.Dir)
	applied, err := migrator.Up(ctx)
	if err != nil {
		return err
	}

	if applied == 0 {
		fmt.Printf("%s✅ No pending migrations%s\n", ColorGreen, ColorReset)
	} else {
		fmt.Printf("%s✅ Applied %d migration(s)%s\n", ColorGreen, applied, ColorReset)
	}

	return nil
}

// ValidatePrerequisites checks that all required external dependencies are available.
func ValidatePrerequisites() error {
	slog.Info("Validating migo prerequisites")

	if _, err := runtime.NewDockerRuntime(); err != nil {
		return fmt.Errorf("Docker prerequisite check failed: %w", err)
	}

	slog.Info("All prerequisites validated successfully")
	return nil
}
