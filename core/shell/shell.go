package shell

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/minish-sh/minish/core/logger"
	"github.com/minish-sh/minish/core/pipeline"
	"github.com/minish-sh/minish/core/proc"
)

const (
	// DefaultPrompt is used when the configuration doesn't set one.
	DefaultPrompt = "> "

	// ExitSyntaxError is the result code for lines the lexer or parser
	// rejects.
	ExitSyntaxError = 2
)

var promptColor = color.New(color.FgGreen, color.Bold)

// Resolver maps a command name to its builtin implementation, or nil when
// the name must be resolved as an external program.
type Resolver func(name string) proc.Func

// Options configures a new Shell. Zero values fall back to the host
// process: its environment, working directory, filesystem and standard
// streams.
type Options struct {
	// Env seeds the shell environment as "key=value" pairs.
	Env []string
	// Dir is the initial working directory.
	Dir string
	// FS is the filesystem builtins open files against.
	FS afero.Fs
	// Resolve looks up builtin commands.
	Resolve Resolver
	// Runner overrides how pipeline stages are launched. Used by tests;
	// the default runs builtins and external programs as OS processes.
	Runner pipeline.Runner
	// Log, when non-nil, records every executed line.
	Log *logger.Logger

	Prompt      string
	HistoryFile string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Shell is the interpreter: an environment, a working directory and the
// pipeline engine that runs parsed commands.
type Shell struct {
	Env *proc.MapEnv
	Dir string
	FS  afero.Fs

	engine  *pipeline.Engine
	resolve Resolver
	log     *logger.Logger

	prompt      string
	historyFile string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a Shell from the given options.
func New(opts Options) *Shell {
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if opts.Dir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.Dir = wd
		} else {
			opts.Dir = "/"
		}
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Resolve == nil {
		opts.Resolve = func(string) proc.Func { return nil }
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	sh := &Shell{
		Env:         proc.NewMapEnvFromEnvList(opts.Env),
		Dir:         opts.Dir,
		FS:          opts.FS,
		resolve:     opts.Resolve,
		log:         opts.Log,
		prompt:      opts.Prompt,
		historyFile: opts.HistoryFile,
		stdin:       opts.Stdin,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
	}

	runner := opts.Runner
	if runner == nil {
		runner = &execRunner{shell: sh}
	}
	sh.engine = pipeline.New(runner)

	return sh
}

// ExecuteLine runs one line of input and reports its result. Lexer and
// parser failures are diagnosed on stderr and yield ExitSyntaxError. A line
// consisting solely of NAME=value assignments mutates the shell environment
// instead of running a command.
func (s *Shell) ExecuteLine(line string, stdout, stderr io.Writer) proc.Result {
	tokens, err := Lex(line, s.Env)
	if err != nil {
		return s.syntaxError(err, stderr)
	}

	stages, err := Parse(tokens)
	if err != nil {
		return s.syntaxError(err, stderr)
	}

	var res proc.Result
	if len(stages) == 1 && allAssignments(stages[0]) {
		s.applyAssignments(stages[0])
	} else {
		res = s.engine.Execute(stages, s.stdin, stdout, stderr)
	}

	s.record(line, res)
	return res
}

// Run is the interpreter's read-execute loop. It returns the interpreter's
// exit code: 0 on end of input, or the code carried by an exit invocation.
func (s *Shell) Run() int {
	cfg := &readline.Config{
		Prompt:      promptColor.Sprint(s.prompt),
		HistoryFile: s.historyFile,
		Stdin:       readline.NewCancelableStdin(io.NopCloser(s.stdin)),
		Stdout:      s.stdout,
		Stderr:      s.stderr,
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		fmt.Fprintf(s.stderr, "minish: %v\n", err)
		return 1
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		switch {
		case err == io.EOF:
			return 0 // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // Interrupt clears the line.

		case err != nil:
			log.Printf("readline: %v", err)
			return 1

		case strings.TrimSpace(line) == "":
			continue
		}

		res := s.ExecuteLine(line, s.stdout, s.stderr)
		if res.ShouldExit {
			return res.ExitCode
		}
	}
}

// RunStage executes one pipeline stage in the current process and returns
// its exit code. It is the in-child half of the pipeline engine: the hidden
// stage subcommand calls it after the engine re-executes the shell binary.
func (s *Shell) RunStage(argv []string) int {
	runner := &execRunner{shell: s}
	return runner.Run(argv, s.stdin, s.stdout, s.stderr).ExitCode
}

func (s *Shell) syntaxError(err error, stderr io.Writer) proc.Result {
	fmt.Fprintf(stderr, "minish: %v\n", err)
	return proc.Result{ExitCode: ExitSyntaxError}
}

func (s *Shell) record(line string, res proc.Result) {
	if s.log == nil {
		return
	}
	// Logging is best effort; a full log disk never blocks the shell.
	_ = s.log.Record(&logger.Command{
		Line:     line,
		Dir:      s.Dir,
		ExitCode: res.ExitCode,
	})
}

func (s *Shell) applyAssignments(args []string) {
	for _, arg := range args {
		split := strings.SplitN(arg, "=", 2)
		s.Env.Setenv(split[0], split[1])
	}
}

// allAssignments reports whether every argument has the form NAME=value
// with a valid variable name.
func allAssignments(args []string) bool {
	for _, arg := range args {
		eq := strings.IndexByte(arg, '=')
		if eq <= 0 || !validName(arg[:eq]) {
			return false
		}
	}
	return true
}

func validName(name string) bool {
	for i := 0; i < len(name); i++ {
		if i == 0 && !isNameStart(name[i]) {
			return false
		}
		if !isNameByte(name[i]) {
			return false
		}
	}
	return name != ""
}
