// Package cmd wires the interpreter's command line interface.
package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/minish-sh/minish/commands"
	"github.com/minish-sh/minish/core/config"
	"github.com/minish-sh/minish/core/logger"
	"github.com/minish-sh/minish/core/shell"
)

var (
	cfgPath     string
	commandLine string

	// exitCode is the interpreter's final status, set by the root command
	// and reported by Execute once cleanup has run.
	exitCode int
)

// rootCmd runs the interpreter: interactively by default, or a single line
// with -c.
var rootCmd = &cobra.Command{
	Use:   "minish",
	Short: "A minimal command interpreter",
	Long: `minish is a minimal command interpreter: it reads lines, splits them into
pipelines respecting quotes and $NAME expansion, and runs each stage as its
own OS process with builtin echo, cat, wc, pwd and exit commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load(afero.NewOsFs(), cfgPath)
		if err != nil {
			return err
		}

		sh, cleanup, err := newShell(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if cmd.Flags().Changed("command") {
			res := sh.ExecuteLine(commandLine, os.Stdout, os.Stderr)
			exitCode = res.ExitCode
			return nil
		}

		exitCode = sh.Run()
		return nil
	},
}

// newShell builds the interactive shell over the host OS. The returned
// cleanup function closes the command log, when one is open.
func newShell(cfg *config.Configuration) (*shell.Shell, func(), error) {
	opts := shell.Options{
		Resolve:     commands.Resolve,
		Prompt:      cfg.Prompt,
		HistoryFile: cfg.HistoryFile,
	}

	cleanup := func() {}
	if cfg.LogFile != "" {
		fd, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		opts.Log = logger.NewJSONLines(fd)
		cleanup = func() { fd.Close() }
	}

	sh := shell.New(opts)
	if cfg.Path != "" {
		sh.Env.Setenv("PATH", cfg.Path)
	}

	return sh, cleanup, nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() and exits the process with
// the interpreter's status code.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.ConfigurationName, "config file path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "execute a single command line and exit")
}
