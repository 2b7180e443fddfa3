// Package proc holds the process abstraction shared by the shell, the
// pipeline engine and the builtin commands: an argument vector, an
// environment, a working directory, a filesystem and standard streams.
package proc

import (
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// Result is the outcome of running one command or a whole pipeline.
type Result struct {
	// ExitCode is the command's exit status, 0 on success.
	ExitCode int
	// ShouldExit is true when the interpreter itself should terminate.
	// Only a non-piped exit invocation sets it; for a pipeline the flag
	// never escapes the stage's process.
	ShouldExit bool
}

// Func runs a single command against a process context.
type Func func(p *Proc) Result

// Proc bundles everything one command invocation sees.
type Proc struct {
	// Args holds the command line, including the command name as Args[0].
	Args []string
	// Env is the process environment.
	Env *MapEnv
	// Dir is the working directory, always absolute.
	Dir string
	// FS is the filesystem commands open files against.
	FS afero.Fs

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Abs resolves path against the process working directory.
func (p *Proc) Abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir, path)
}
