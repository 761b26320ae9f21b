package montage

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	cerrors "github.com/matzehuels/tilestitch/pkg/errors"
	"github.com/matzehuels/tilestitch/pkg/observability"
)

// DefaultCommand is the external compositor executable.
const DefaultCommand = "montage"

// ExitStatus is the exit code of a compositor run.
type ExitStatus int

const (
	// StatusOK means the compositor succeeded.
	StatusOK ExitStatus = 0
	// StatusFailed is reported when the compositor failed without an exit code.
	StatusFailed ExitStatus = 1
	// StatusNotFound follows the shell convention for a missing executable.
	StatusNotFound ExitStatus = 127
)

// OK reports whether s is a successful exit.
func (s ExitStatus) OK() bool { return s == StatusOK }

// Compositor lays out a Command's inputs into its output image.
//
// Composite blocks until the job is finished. A job that ran to completion
// and failed reports a non-zero ExitStatus with a nil error; an error is
// returned only when the job could not be run at all or was interrupted.
type Compositor interface {
	Name() string
	Composite(ctx context.Context, cmd Command) (ExitStatus, error)
}

// ExecCompositor runs an external montage-compatible program.
type ExecCompositor struct {
	// Command is the executable, resolved through PATH. Defaults to
	// DefaultCommand.
	Command string

	// Stdout and Stderr receive the program's output. They default to the
	// process's own streams so the tool's messages reach the console.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecCompositor returns an ExecCompositor for the given executable.
func NewExecCompositor(command string) *ExecCompositor {
	return &ExecCompositor{Command: command}
}

// Name returns the executable name.
func (e *ExecCompositor) Name() string {
	if e.Command == "" {
		return DefaultCommand
	}
	return e.Command
}

// Composite runs the executable with cmd.Args() and waits for it to exit.
func (e *ExecCompositor) Composite(ctx context.Context, cmd Command) (status ExitStatus, err error) {
	name := e.Name()
	args := cmd.Args()
	hooks := observability.Process()
	hooks.OnSpawn(ctx, name, len(args))
	start := time.Now()
	defer func() { hooks.OnExit(ctx, name, int(status), time.Since(start)) }()

	path, err := exec.LookPath(name)
	if err != nil {
		return StatusNotFound, cerrors.Wrap(cerrors.ErrCodeCompositorNotFound, err,
			"%s not found on PATH (install ImageMagick or use --compositor builtin)", name)
	}

	proc := exec.CommandContext(ctx, path, args...)
	proc.Stdout = e.Stdout
	if proc.Stdout == nil {
		proc.Stdout = os.Stdout
	}
	proc.Stderr = e.Stderr
	if proc.Stderr == nil {
		proc.Stderr = os.Stderr
	}

	err = proc.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return StatusFailed, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitStatus(exitErr.ExitCode()), nil
	}
	if err != nil {
		return StatusFailed, cerrors.Wrap(cerrors.ErrCodeCompositorFailed, err, "run %s", name)
	}
	return StatusOK, nil
}

// Ensure ExecCompositor implements Compositor.
var _ Compositor = (*ExecCompositor)(nil)
