// Package commands implements the CLI commands for the obuild tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/obuild/internal/app"
)

// CLI represents the command line interface for obuild.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app. The root command
// itself runs the build: `obuild [flags] [target]`.
func New(a *app.App) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "obuild [flags] [target]",
		Short:         "A parallel, script-driven build tool",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runBuild,
	}

	flags := rootCmd.Flags()
	flags.StringP("directory", "C", "", "Change to directory before running")
	flags.StringP("file", "f", app.DefaultBuildFile, "Build file to evaluate")
	flags.StringP("eval", "e", "", "Evaluate string before the build file")
	flags.IntP("jobs", "j", 1, "Number of jobs (0 means the number of CPU cores)")
	flags.BoolP("ignore-env", "E", false, "Ignore environment variables")

	rootCmd.AddCommand(newVersionCmd())

	c.rootCmd = rootCmd
	return c
}

func (c *CLI) runBuild(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	dir, _ := flags.GetString("directory")
	file, _ := flags.GetString("file")
	eval, _ := flags.GetString("eval")
	jobs, _ := flags.GetInt("jobs")
	ignoreEnv, _ := flags.GetBool("ignore-env")

	opts := app.Options{
		Dir:       dir,
		File:      file,
		FileSet:   flags.Changed("file"),
		Eval:      eval,
		Jobs:      jobs,
		JobsSet:   flags.Changed("jobs"),
		IgnoreEnv: ignoreEnv,
		EnvSet:    flags.Changed("ignore-env"),
	}
	if len(args) > 0 {
		opts.Target = args[0]
	}

	return c.app.Build(cmd.Context(), opts)
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
