package guard

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "migo/internal/errors"
	"migo/pkg/runtime"
)

// Outcome reports what EnsureRunning had to do.
type Outcome string

const (
	// OutcomeStarted means no container by that name existed and one was started.
	OutcomeStarted Outcome = "started"
	// OutcomeRecreated means a stopped container was removed and a fresh one started.
	OutcomeRecreated Outcome = "recreated"
	// OutcomeAlreadyRunning means the container was running and nothing was done.
	OutcomeAlreadyRunning Outcome = "already-running"
)

// Guard keeps a named background database container in the running state.
type Guard struct {
	containerRuntime runtime.ContainerRuntime
}

// New creates a Guard on top of the given container runtime.
func New(containerRuntime runtime.ContainerRuntime) *Guard {
	return &Guard{
		containerRuntime: containerRuntime,
	}
}

// EnsureRunning checks whether the named container is running and starts it
// if not. A stopped leftover with the same name is removed and recreated
// rather than restarted in place, since its configuration may predate the
// current spec.
//
// The state query and the start request are two separate runtime calls;
// another process can act on the container in between. That race is accepted:
// this is a best-effort convenience check for a single operator, not a
// correctness guarantee.
func (g *Guard) EnsureRunning(ctx context.Context, spec runtime.RunSpec) (Outcome, error) {
	if err := validateSpec(spec); err != nil {
		return "", err
	}

	status, err := g.containerRuntime.Inspect(ctx, spec.Name)
	if err != nil {
		return "", err
	}

	if status.Running {
		slog.Info("Container already running", "name", spec.Name, "containerID", status.ID)
		return OutcomeAlreadyRunning, nil
	}

	outcome := OutcomeStarted
	if status.Exists {
		// Stopped leftover; clear it out before starting fresh.
		slog.Info("Removing stopped container before recreate", "name", spec.Name, "state", status.State)
		if err := g.containerRuntime.Remove(ctx, spec.Name); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrStartFailed, err)
		}
		outcome = OutcomeRecreated
	}

	if err := g.containerRuntime.StartDetached(ctx, spec); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStartFailed, err)
	}

	return outcome, nil
}

// Remove force-removes the named container, running or not. Removing a
// container that does not exist is a success.
func (g *Guard) Remove(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: container name must not be empty", apperrors.ErrInvalidSpec)
	}

	return g.containerRuntime.Remove(ctx, name)
}

// Status reports the raw observed state of the named container.
func (g *Guard) Status(ctx context.Context, name string) (runtime.ContainerStatus, error) {
	if name == "" {
		return runtime.ContainerStatus{}, fmt.Errorf("%w: container name must not be empty", apperrors.ErrInvalidSpec)
	}

	return g.containerRuntime.Inspect(ctx, name)
}

// validateSpec rejects malformed specs before any runtime contact.
func validateSpec(spec runtime.RunSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("%w: container name must not be empty", apperrors.ErrInvalidSpec)
	}
	if spec.Image == "" {
		return fmt.Errorf("%w: container image must not be empty", apperrors.ErrInvalidSpec)
	}
	return nil
}
