// Package commands implements the interpreter's builtin commands.
package commands

import (
	"fmt"
	"io"

	getopt "github.com/pborman/getopt/v2"

	"github.com/minish-sh/minish/core/proc"
)

// AllCommands holds every registered builtin, keyed by name.
var AllCommands = make(map[string]proc.Func)

// addCmd registers a builtin. Panics on duplicates so a bad registration
// fails at startup rather than shadowing silently.
func addCmd(name string, cmd proc.Func) {
	if _, ok := AllCommands[name]; ok {
		panic("duplicate builtin: " + name)
	}
	AllCommands[name] = cmd
}

// Resolve returns the builtin with the given name, or nil when the name is
// not a builtin. It satisfies shell.Resolver.
func Resolve(name string) proc.Func {
	return AllCommands[name]
}

// SimpleCommand standardizes flag parsing and help output for builtins.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not. If this is non-nil
	// when Run() is called, the default help flag isn't added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses flags from the process arguments and calls the callback if
// parsing succeeded.
func (s *SimpleCommand) Run(p *proc.Proc, callback func() proc.Result) proc.Result {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(p.Args, nil); err != nil {
		fmt.Fprintf(p.Stderr, "error: %s\n\n", err)
		s.PrintHelp(p.Stderr)
		return proc.Result{ExitCode: 1}
	}

	if *s.ShowHelp {
		s.PrintHelp(p.Stdout)
		return proc.Result{}
	}

	return callback()
}
