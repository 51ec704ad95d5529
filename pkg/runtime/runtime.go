package runtime

import "context"

// PortMapping publishes a single container port on the host.
type PortMapping struct {
	Host      int
	Container int
}

// RunSpec defines the parameters for a detached container start.
type RunSpec struct {
	Name  string
	Image string
	Port  PortMapping
	Env   map[string]string
}

// ContainerStatus is the observed state of a named container. Exists is
// false when no container by that name is known to the runtime; the
// remaining fields are only meaningful when Exists is true.
type ContainerStatus struct {
	Exists  bool
	Running bool
	State   string
	ID      string
}

// ContainerRuntime defines the contract for container lifecycle operations.
// Inspect treats an unknown name as a successful zero-value status, and
// Remove treats it as a successful no-op.
type ContainerRuntime interface {
	Inspect(ctx context.Context, name string) (ContainerStatus, error)
	StartDetached(ctx context.Context, spec RunSpec) error
	Remove(ctx context.Context, name string) error
}
