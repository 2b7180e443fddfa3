package commands

import (
	"fmt"
	"strconv"

	"github.com/minish-sh/minish/core/proc"
)

// Exit terminates the interpreter with an optional status code. Inside a
// pipeline the stage's process exits, but the interpreter stays up: the
// ShouldExit flag never crosses a process boundary.
func Exit(p *proc.Proc) proc.Result {
	cmd := &SimpleCommand{
		Use:   "exit [CODE]",
		Short: "Exit the shell with a status of CODE, 0 when omitted.",
	}

	opts := cmd.Flags()

	return cmd.Run(p, func() proc.Result {
		code := 0
		if args := opts.Args(); len(args) > 0 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(p.Stderr, "exit: %s: numeric argument required\n", args[0])
				return proc.Result{ExitCode: 2, ShouldExit: true}
			}
			code = parsed
		}

		return proc.Result{ExitCode: code, ShouldExit: true}
	})
}

var _ proc.Func = Exit

func init() {
	addCmd("exit", Exit)
}
