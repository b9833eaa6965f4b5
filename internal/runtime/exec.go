package runtime

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Shell used when the caller does not specify one. Builder images carry
// bash; the recipe scripts assume it.
const defaultShell = "/bin/bash"

// Sequence counter for generating unique exec process identifiers.
var execSeq uint64

// Returns a unique exec process identifier.
func nextExecID() string {
	return fmt.Sprintf("exec-%d", atomic.AddUint64(&execSeq, 1))
}

// Controls script execution inside a container.
type ExecOptions struct {
	Shell   string    // Shell binary. Empty uses /bin/bash.
	Env     []string  // Extra environment entries ("key=value").
	Workdir string    // Working directory override.
	Stdout  io.Writer // Live stdout stream. Nil discards.
	Stderr  io.Writer // Live stderr stream. Nil discards.
}

// Runs a shell script inside the container and returns its exit code.
//
// The script is piped to "shell -s" over stdin rather than passed as an
// argument, so arbitrarily long generated stage scripts never hit argv
// limits. Output streams live to the given writers. A non-zero exit code is
// not treated as an error; the caller decides.
func (c *Container) RunScript(ctx context.Context, script string, opts ExecOptions) (int, error) {
	shell := opts.Shell
	if shell == "" {
		shell = defaultShell
	}

	pspec, err := c.buildProcessSpec(ctx, opts.Env, opts.Workdir, shell, "-s")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return c.execProcess(ctx, pspec, strings.NewReader(script), opts.Stdout, opts.Stderr)
}

// Builds an OCI process spec for running a command inside the container.
//
// The base values are copied from the container's own OCI spec, then env and
// workdir are overridden if provided.
func (c *Container) buildProcessSpec(ctx context.Context, env []string, workdir string, args ...string) (*specs.Process, error) {
	ctr, err := c.client.LoadContainer(ctx, c.id)
	if err != nil {
		return nil, err
	}

	spec, err := ctr.Spec(ctx)
	if err != nil {
		return nil, err
	}

	pspec := *spec.Process
	pspec.Terminal = false
	pspec.Args = args

	if len(env) > 0 {
		pspec.Env = mergeEnv(pspec.Env, env)
	}
	if workdir != "" {
		pspec.Cwd = workdir
	}

	return &pspec, nil
}

// Merges override env vars on top of a base env slice.
//
// Base order is preserved and overrides append in their given order, so the
// merged environment is deterministic.
func mergeEnv(base, overrides []string) []string {
	index := make(map[string]int, len(base))
	merged := make([]string, 0, len(base)+len(overrides))

	for _, entry := range base {
		if k, _, ok := strings.Cut(entry, "="); ok {
			index[k] = len(merged)
			merged = append(merged, entry)
		}
	}
	for _, entry := range overrides {
		if k, _, ok := strings.Cut(entry, "="); ok {
			if i, seen := index[k]; seen {
				merged[i] = entry
				continue
			}
			index[k] = len(merged)
			merged = append(merged, entry)
		}
	}
	return merged
}

// Starts a process inside the container's running task, waits for it to
// exit, and returns the exit code.
//
// The process is attached to the task as an additional exec, not as the
// primary process. This requires the task to already be running (started
// during container creation). Nil output streams are replaced with
// io.Discard. When stdin is provided, the container's stdin is explicitly
// closed after the reader returns EOF so the exec process receives the EOF
// signal; the containerd shim holds both ends of the stdin FIFO open and
// will not propagate EOF on its own.
func (c *Container) execProcess(ctx context.Context, pspec *specs.Process, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	task, err := c.loadTask(ctx)
	if err != nil {
		return 0, err
	}

	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	// Wrap stdin to detect when the script stream ends.
	var stdinDone <-chan struct{}
	if stdin != nil {
		sr := newScriptReader(stdin)
		stdin = sr
		stdinDone = sr.done
	}

	process, err := task.Exec(ctx, nextExecID(), pspec, cio.NewCreator(
		cio.WithStreams(stdin, stdout, stderr),
	))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return awaitProcess(ctx, process, stdinDone)
}

// Loads the container's running task.
func (c *Container) loadTask(ctx context.Context) (containerd.Task, error) {
	ctr, err := c.client.LoadContainer(ctx, c.id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	task, err := ctr.Task(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return task, nil
}

// Waits for an exec process to exit and returns the exit code.
//
// The process is started, then the function blocks until it exits. If
// stdinDone is non-nil, the process stdin is closed when the channel fires
// so the exec process receives EOF. The process is always deleted before
// returning.
func awaitProcess(ctx context.Context, process containerd.Process, stdinDone <-chan struct{}) (int, error) {
	statusC, err := process.Wait(ctx)
	if err != nil {
		process.Delete(ctx)
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := process.Start(ctx); err != nil {
		process.Delete(ctx)
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if stdinDone != nil {
		go func() {
			<-stdinDone
			process.CloseIO(ctx, containerd.WithStdinCloser)
		}()
	}

	exitStatus := <-statusC
	process.Delete(ctx)

	code, _, err := exitStatus.Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return int(code), nil
}
