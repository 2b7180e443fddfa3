package pipeline

import (
	"io"
	"os"

	"github.com/minish-sh/minish/core/proc"
)

// Runner executes exactly one pipeline stage. The engine treats it as
// opaque: one invocation per stage, no shared state between invocations
// within a single pipeline run.
type Runner interface {
	// Run executes argv synchronously in the calling process against the
	// given streams. It is used for the single-stage fast path, where no
	// pipes or child processes are involved.
	Run(argv []string, stdin io.Reader, stdout, stderr io.Writer) proc.Result

	// Start launches argv as its own OS process attached to the given
	// endpoints and returns without waiting. Ownership of the endpoints
	// stays with the caller: Start must duplicate them into the child
	// before it returns, so that the caller can close its copies.
	Start(argv []string, stdin io.Reader, stdout, stderr *os.File) (Handle, error)
}

// Handle tracks one launched stage until it terminates.
type Handle interface {
	// Wait blocks until the stage terminates and returns its exit code
	// under the shell's mapping. A non-nil error means termination could
	// not be observed at all.
	Wait() (int, error)
}

// Exited returns a Handle for a stage that finished before it could be
// spawned, such as a command that failed path resolution. Waiting on it
// yields the given code immediately.
func Exited(code int) Handle {
	return exitedHandle(code)
}

type exitedHandle int

func (h exitedHandle) Wait() (int, error) {
	return int(h), nil
}
