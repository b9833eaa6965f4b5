package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ffbuild/ffbuild/internal/runtime"
)

// Executes one composed stage.
//
// The driver only needs this much of the container runtime; tests exercise
// the plan and fail-fast logic with an in-memory implementation.
type Executor interface {
	ExecuteStage(ctx context.Context, index int, stage Stage, script string, env []string) error
}

// Runs stage scripts in containerd-backed build containers.
//
// Each stage gets its own container from the builder image, with the shared
// prefix and source cache mounted. Containers accumulate until the build
// finishes so later inspection is possible; destroy releases them all.
type containerExecutor struct {
	rt       *runtime.Runtime
	image    *runtime.Image
	mounts   []runtime.Mount
	resource string // Prefix for container IDs, scoped per target/variant.
	stdout   io.Writer
	stderr   io.Writer

	containers []*runtime.Container
}

// Starts a container for the stage and runs its script.
//
// A non-zero script exit surfaces as a [StageError]; the container is left
// in place for inspection and cleaned up with the rest on destroy.
func (e *containerExecutor) ExecuteStage(ctx context.Context, index int, stage Stage, script string, env []string) error {
	id := fmt.Sprintf("%s-stage-%d", e.resource, index+1)

	ctr, err := e.rt.StartContainer(ctx, e.image, id, e.mounts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	e.containers = append(e.containers, ctr)

	code, err := ctr.RunScript(ctx, script, runtime.ExecOptions{
		Env:    env,
		Stdout: e.stdout,
		Stderr: e.stderr,
	})
	if err != nil {
		return fmt.Errorf("%w: stage %d (%s): %w", ErrBuild, index+1, stage.Name, err)
	}
	if code != 0 {
		return &StageError{Index: index, Name: stage.Name, ExitCode: code}
	}

	if err := ctr.Stop(ctx); err != nil {
		slog.Warn("failed to stop stage container", "id", id, "error", err)
	}
	return nil
}

// Destroys all stage containers.
func (e *containerExecutor) destroy(ctx context.Context) {
	for _, ctr := range e.containers {
		ctr.Destroy(ctx)
	}
}
