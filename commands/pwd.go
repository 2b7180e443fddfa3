package commands

import (
	"fmt"

	"github.com/minish-sh/minish/core/proc"
)

// Pwd prints the working directory of the current process.
func Pwd(p *proc.Proc) proc.Result {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	return cmd.Run(p, func() proc.Result {
		fmt.Fprintln(p.Stdout, p.Dir)
		return proc.Result{}
	})
}

var _ proc.Func = Pwd

func init() {
	addCmd("pwd", Pwd)
}
