package build

import (
	"errors"
	"fmt"
)

var (
	ErrBuild      = errors.New("build failed")
	ErrStage      = errors.New("stage failed")
	ErrFileSystem = errors.New("file system operation failed")
)

// Reports a stage whose container execution exited non-zero.
//
// The exit code is preserved so the process exit status can mirror the
// first failing stage.
type StageError struct {
	Index    int    // Zero-based stage index in the composed plan.
	Name     string // Stage name (its first recipe).
	ExitCode int    // Exit code of the stage script.
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s) failed with exit code %d", e.Index+1, e.Name, e.ExitCode)
}

func (e *StageError) Unwrap() error {
	return ErrStage
}
