package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"

	apperrors "migo/internal/errors"
	"migo/pkg/runtime"
)

// DockerRuntime implements the ContainerRuntime interface using Docker client.
type DockerRuntime struct {
	client *client.Client
}

// NewDockerRuntime creates a new DockerRuntime instance using client.FromEnv.
func NewDockerRuntime() (*DockerRuntime, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Docker client: %v", apperrors.ErrRuntimeUnavailable, err)
	}

	// Check if Docker daemon is accessible
	ctx := context.Background()
	_, err = dockerClient.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to Docker daemon: %v", apperrors.ErrRuntimeUnavailable, err)
	}

	return &DockerRuntime{
		client: dockerClient,
	}, nil
}

// Inspect reports the current state of the named container. A name the
// daemon does not know yields a zero-value status and no error.
func (d *DockerRuntime) Inspect(ctx context.Context, name string) (runtime.ContainerStatus, error) {
	resp, err := d.client.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return runtime.ContainerStatus{}, nil
		}
		return runtime.ContainerStatus{}, fmt.Errorf("failed to inspect container %s: %w", name, err)
	}

	status := runtime.ContainerStatus{
		Exists: true,
		ID:     resp.ID,
	}
	if resp.State != nil {
		status.Running = resp.State.Running
		status.State = resp.State.Status
	}

	return status, nil
}

// StartDetached creates and starts a named background container with the
// given image, published port, and environment. The image is pulled on
// demand when it is not present locally.
func (d *DockerRuntime) StartDetached(ctx context.Context, spec runtime.RunSpec) error {
	slog.Info("Starting container", "name", spec.Name, "image", spec.Image)

	containerPort, err := nat.NewPort("tcp", strconv.Itoa(spec.Port.Container))
	if err != nil {
		return fmt.Errorf("invalid container port %d: %w", spec.Port.Container, err)
	}

	var envVars []string
	for key, value := range spec.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", key, value))
	}

	containerConfig := &container.Config{
		Image:        spec.Image,
		Env:          envVars,
		ExposedPorts: nat.PortSet{containerPort: struct{}{}},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			containerPort: []nat.PortBinding{
				{HostPort: strconv.Itoa(spec.Port.Host)},
			},
		},
	}

	resp, err := d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, spec.Name)
	if errdefs.IsNotFound(err) {
		// Image not present locally; pull it and retry once.
		if pullErr := d.pullImage(ctx, spec.Image); pullErr != nil {
			return pullErr
		}
		resp, err = d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, spec.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	containerID := resp.ID

	if err := d.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		// Clean up on start failure
		if removeErr := d.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); removeErr != nil {
			slog.Error("Failed to remove container after start failure", "containerID", containerID, "error", removeErr)
		}
		return fmt.Errorf("failed to start container: %w", err)
	}

	slog.Info("Container started", "name", spec.Name, "containerID", containerID)
	return nil
}

// Remove force-removes the named container, running or not. Removing a
// container that does not exist is a successful no-op.
func (d *DockerRuntime) Remove(ctx context.Context, name string) error {
	err := d.client.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}

	slog.Info("Container removed", "name", name)
	return nil
}

// pullImage pulls a Docker image, discarding the progress stream.
func (d *DockerRuntime) pullImage(ctx context.Context, imageName string) error {
	slog.Info("Pulling Docker image", "image", imageName)

	reader, err := d.client.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	defer reader.Close()

	// Stream the pull output (but don't print it to avoid clutter)
	_, err = io.Copy(io.Discard, reader)
	if err != nil {
		return fmt.Errorf("failed to stream image pull output: %w", err)
	}

	slog.Info("Successfully pulled Docker image", "image", imageName)
	return nil
}
