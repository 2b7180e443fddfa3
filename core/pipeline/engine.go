// Package pipeline executes parsed command pipelines. Each stage beyond the
// single-stage fast path runs in its own OS process; adjacent stages are
// connected by anonymous pipes, every stage's standard error is multiplexed
// onto one shared collection pipe, and the final stage's standard output is
// captured on another. The pipeline's exit code is the last stage's.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/minish-sh/minish/core/proc"
)

// Engine runs pipelines of one or more stages through a Runner.
type Engine struct {
	runner Runner

	// newPipe allocates one anonymous pipe. Swapped out by tests to
	// simulate descriptor exhaustion.
	newPipe func() (r *os.File, w *os.File, err error)
}

// New creates an Engine that launches stages with the given runner.
func New(runner Runner) *Engine {
	return &Engine{
		runner:  runner,
		newPipe: os.Pipe,
	}
}

// Execute runs stages as a pipeline: stage i's output feeds stage i+1's
// input, stdin feeds the first stage, stdout receives only the final
// stage's output and stderr receives every stage's error output. The
// returned result carries the final stage's exit code; earlier stages'
// codes are discarded, mirroring POSIX pipeline semantics.
//
// An empty pipeline is a no-op success. A single stage bypasses all pipe
// and process machinery so that an exit invocation can reach the caller.
func (e *Engine) Execute(stages [][]string, stdin io.Reader, stdout, stderr io.Writer) proc.Result {
	switch len(stages) {
	case 0:
		return proc.Result{}
	case 1:
		return e.runner.Run(stages[0], stdin, stdout, stderr)
	}

	collectErr, err := e.pipe()
	if err != nil {
		fmt.Fprintf(stderr, "pipe: %v\n", err)
		return proc.Result{ExitCode: ExitUnknown}
	}
	collectOut, err := e.pipe()
	if err != nil {
		collectErr.close()
		fmt.Fprintf(stderr, "pipe: %v\n", err)
		return proc.Result{ExitCode: ExitUnknown}
	}

	handles := make([]Handle, 0, len(stages))

	// Read end of the pipe feeding the next stage, owned by the engine
	// until the stage is launched.
	var prevRead *os.File

	for i, argv := range stages {
		lastStage := i == len(stages)-1

		var next pipe
		if !lastStage {
			next, err = e.pipe()
			if err != nil {
				closeFile(&prevRead)
				collectErr.close()
				collectOut.close()
				fmt.Fprintf(stderr, "pipe: %v\n", err)
				return proc.Result{ExitCode: ExitUnknown}
			}
		}

		var stageIn io.Reader = stdin
		if prevRead != nil {
			stageIn = prevRead
		}
		stageOut := collectOut.w
		if !lastStage {
			stageOut = next.w
		}

		handle, err := e.runner.Start(argv, stageIn, stageOut, collectErr.w)
		if err != nil {
			closeFile(&prevRead)
			next.close()
			collectErr.close()
			collectOut.close()
			fmt.Fprintf(stderr, "start failed: %v\n", err)
			return proc.Result{ExitCode: ExitUnknown}
		}
		handles = append(handles, handle)

		// The child holds its own duplicates now. Release the parent's
		// copies promptly so readers see EOF once every writer is gone.
		closeFile(&prevRead)
		if !lastStage {
			next.closeWrite()
			prevRead = next.r
		}
	}

	// No writer may remain on either collection pipe before draining,
	// otherwise the reads below never see end-of-stream.
	collectErr.closeWrite()
	collectOut.closeWrite()

	drain(stdout, collectOut.r)
	drain(stderr, collectErr.r)
	collectOut.closeRead()
	collectErr.closeRead()

	return proc.Result{ExitCode: e.waitAll(handles, stderr)}
}

func (e *Engine) pipe() (pipe, error) {
	r, w, err := e.newPipe()
	if err != nil {
		return pipe{}, err
	}
	return pipe{r: r, w: w}, nil
}

// drain copies src to dst until end-of-stream. Safe here because every
// writer of src has already closed its end.
func drain(dst io.Writer, src io.Reader) {
	_, _ = io.Copy(dst, src)
}

// waitAll reaps every stage in launch order. A failed wait is reported and
// counts as ExitUnknown for that stage but never abandons the remaining
// waits. Only the last stage's code is returned.
func (e *Engine) waitAll(handles []Handle, stderr io.Writer) int {
	lastExit := 0
	for i, handle := range handles {
		code, err := handle.Wait()
		if err != nil {
			fmt.Fprintf(stderr, "wait failed: %v\n", err)
			code = ExitUnknown
		}
		if i == len(handles)-1 {
			lastExit = code
		}
	}
	return lastExit
}
