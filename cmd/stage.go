package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/minish-sh/minish/commands"
	"github.com/minish-sh/minish/core/shell"
)

// stageCmd runs a single pipeline stage in its own OS process. The pipeline
// engine re-executes the shell binary with this command for builtin stages,
// so that a builtin in a pipeline gets real process, descriptor and exit
// semantics, and an exit builtin only terminates its own stage.
var stageCmd = &cobra.Command{
	Use:                shell.StageCommand + " NAME [ARG...]",
	Short:              "Run one pipeline stage (internal)",
	Hidden:             true,
	DisableFlagParsing: true,
	Args:               cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sh := shell.New(shell.Options{
			Resolve: commands.Resolve,
		})
		os.Exit(sh.RunStage(args))
	},
}

func init() {
	rootCmd.AddCommand(stageCmd)
}
