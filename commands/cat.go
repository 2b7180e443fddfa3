package commands

import (
	"fmt"
	"io"

	"github.com/minish-sh/minish/core/proc"
)

// Cat implements the UNIX cat command. Without arguments it copies its
// standard input.
func Cat(p *proc.Proc) proc.Result {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	opts := cmd.Flags()

	return cmd.Run(p, func() proc.Result {
		args := opts.Args()

		if len(args) == 0 {
			if _, err := io.Copy(p.Stdout, p.Stdin); err != nil {
				fmt.Fprintf(p.Stderr, "cat: %v\n", err)
				return proc.Result{ExitCode: 1}
			}
			return proc.Result{}
		}

		for _, arg := range args {
			fd, err := p.FS.Open(p.Abs(arg))
			if err != nil {
				fmt.Fprintf(p.Stderr, "cat: %v\n", err)
				return proc.Result{ExitCode: 1}
			}

			_, err = io.Copy(p.Stdout, fd)
			fd.Close()
			if err != nil {
				fmt.Fprintf(p.Stderr, "cat: %v\n", err)
				return proc.Result{ExitCode: 1}
			}
		}

		return proc.Result{}
	})
}

var _ proc.Func = Cat

func init() {
	addCmd("cat", Cat)
}
