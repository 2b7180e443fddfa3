package pipeline

import (
	"os"
	"syscall"
)

const (
	// ExitUnknown reports commands that could not be found, spawned or
	// observed.
	ExitUnknown = 127

	// exitSignalBase offsets exit codes of signal-terminated processes,
	// e.g. SIGKILL becomes 137.
	exitSignalBase = 128
)

// ExitCode maps a terminated process state to a shell exit code: normal
// termination keeps its status, termination by signal k becomes 128+k and
// anything else becomes ExitUnknown.
func ExitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		switch {
		case ws.Exited():
			return ws.ExitStatus()
		case ws.Signaled():
			return exitSignalBase + int(ws.Signal())
		}
		return ExitUnknown
	}

	if code := state.ExitCode(); code >= 0 {
		return code
	}
	return ExitUnknown
}
