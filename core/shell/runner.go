package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/minish-sh/minish/core/pipeline"
	"github.com/minish-sh/minish/core/proc"
)

// StageCommand is the hidden subcommand the pipeline engine re-executes the
// shell binary with to run a builtin inside its own OS process.
const StageCommand = "stage"

// execRunner launches pipeline stages for a Shell: builtins by re-executing
// the shell binary in stage mode, external programs directly after PATH
// resolution.
type execRunner struct {
	shell *Shell
}

var _ pipeline.Runner = (*execRunner)(nil)

// Run executes one command synchronously in the calling process.
func (r *execRunner) Run(argv []string, stdin io.Reader, stdout, stderr io.Writer) proc.Result {
	sh := r.shell

	if builtin := sh.resolve(argv[0]); builtin != nil {
		return builtin(&proc.Proc{
			Args:   argv,
			Env:    sh.Env,
			Dir:    sh.Dir,
			FS:     sh.FS,
			Stdin:  stdin,
			Stdout: stdout,
			Stderr: stderr,
		})
	}

	path, err := proc.LookPath(sh.FS, sh.Env, argv[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s: command not found\n", argv[0])
		return proc.Result{ExitCode: pipeline.ExitUnknown}
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Dir = sh.Dir
	cmd.Env = sh.Env.Environ()
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return proc.Result{ExitCode: pipeline.ExitCode(exitErr.ProcessState)}
		}
		fmt.Fprintf(stderr, "%s: %v\n", argv[0], err)
		return proc.Result{ExitCode: pipeline.ExitUnknown}
	}

	return proc.Result{}
}

// Start launches one pipeline stage as a child process wired to the given
// endpoints. The engine keeps ownership of the endpoints; they are
// duplicated into the child here.
func (r *execRunner) Start(argv []string, stdin io.Reader, stdout, stderr *os.File) (pipeline.Handle, error) {
	sh := r.shell

	var cmd *exec.Cmd
	if sh.resolve(argv[0]) != nil {
		self, err := os.Executable()
		if err != nil {
			return nil, err
		}
		cmd = exec.Command(self, append([]string{StageCommand}, argv...)...)
	} else {
		path, err := proc.LookPath(sh.FS, sh.Env, argv[0])
		if err != nil {
			// Not a launch failure: the stage reports its own error on
			// the shared stream and counts as exited with 127, just like
			// a child whose exec failed.
			fmt.Fprintf(stderr, "%s: command not found\n", argv[0])
			return pipeline.Exited(pipeline.ExitUnknown), nil
		}
		cmd = exec.Command(path, argv[1:]...)
	}

	cmd.Dir = sh.Dir
	cmd.Env = sh.Env.Environ()
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &procHandle{cmd: cmd}, nil
}

// procHandle waits on one spawned stage.
type procHandle struct {
	cmd *exec.Cmd
}

func (h *procHandle) Wait() (int, error) {
	err := h.cmd.Wait()
	var exitErr *exec.ExitError

	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return pipeline.ExitCode(exitErr.ProcessState), nil
	default:
		return pipeline.ExitUnknown, err
	}
}
