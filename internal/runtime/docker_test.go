package runtime

import (
	"errors"
	"testing"

	apperrors "migo/internal/errors"
)

func TestNewDockerRuntime_RequiresDockerDaemon(t *testing.T) {
	// This test will fail to connect if no Docker daemon is running; either
	// way the error classification must be consistent.
	rt, err := NewDockerRuntime()

	if err != nil {
		if !errors.Is(err, apperrors.ErrRuntimeUnavailable) {
			t.Errorf("NewDockerRuntime() error = %v, want ErrRuntimeUnavailable", err)
		}
		return
	}

	if rt == nil {
		t.Fatal("NewDockerRuntime() returned nil runtime without error")
	}
}
