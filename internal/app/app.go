// Package app implements the application layer for obuild.
package app

import (
	"context"
	"io"
	"os"
	"runtime"

	"go.trai.ch/obuild/internal/adapters/script" //nolint:depguard // Wired in app layer
	"go.trai.ch/obuild/internal/core/domain"
	"go.trai.ch/obuild/internal/core/ports"
	"go.trai.ch/obuild/internal/engine/driver"
	"go.trai.ch/zerr"
)

// DefaultBuildFile is the build file evaluated when -f is not given.
const DefaultBuildFile = "obuild.cfg"

// DefaultTarget is the target built when none is named on the command line.
const DefaultTarget = "default"

// App represents the main application logic: one Build call is one run of
// the driver over a freshly evaluated build file.
type App struct {
	loader ports.ConfigLoader
	exec   ports.Executor
	stat   ports.Staleness
	glob   ports.Globber
	logger ports.Logger
}

// Options carries the command-line surface into a Build call. The Set
// fields record whether the user gave the flag explicitly, so tool
// defaults from the defaults file do not override them.
type Options struct {
	Dir       string
	File      string
	FileSet   bool
	Eval      string
	Jobs      int
	JobsSet   bool
	IgnoreEnv bool
	EnvSet    bool
	Target    string

	// Stdout overrides echo output. Used by tests.
	Stdout io.Writer
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, exec ports.Executor, stat ports.Staleness, glob ports.Globber, logger ports.Logger) *App {
	return &App{
		loader: loader,
		exec:   exec,
		stat:   stat,
		glob:   glob,
		logger: logger,
	}
}

// Build evaluates the build file and drives the requested target. It
// returns the first error of the run; the task pool is always drained
// before it returns.
func (a *App) Build(ctx context.Context, opts Options) error {
	if opts.Dir != "" {
		if err := os.Chdir(opts.Dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed changing directory"), "dir", opts.Dir)
		}
	}

	file, jobs, ignoreEnv, err := a.applyDefaults(opts)
	if err != nil {
		return err
	}

	engine := driver.New(a.exec, a.stat, jobs)
	host := script.New(engine, a.glob, a.logger, script.Options{
		IgnoreEnv: ignoreEnv,
		NumCPUs:   runtime.NumCPU(),
		NumJobs:   jobs,
		Stdout:    opts.Stdout,
	})

	err = a.configure(ctx, host, opts.Eval, file)
	if err == nil && engine.RuleCount() == 0 {
		err = domain.ErrNoTargets
	}

	if err == nil {
		target := opts.Target
		if target == "" {
			target = DefaultTarget
		}
		err = engine.ExecMain(ctx, target)
	}

	closeErr := engine.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// applyDefaults merges the optional defaults file under the command line:
// flags given explicitly always win.
func (a *App) applyDefaults(opts Options) (file string, jobs int, ignoreEnv bool, err error) {
	defaults, err := a.loader.Load(".")
	if err != nil {
		return "", 0, false, err
	}

	file = opts.File
	if !opts.FileSet && defaults.File != nil {
		file = *defaults.File
	}
	if file == "" {
		file = DefaultBuildFile
	}

	jobs = opts.Jobs
	if !opts.JobsSet && defaults.Jobs != nil {
		jobs = *defaults.Jobs
	}
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}
	if jobs < 1 {
		jobs = 1
	}

	ignoreEnv = opts.IgnoreEnv
	if !opts.EnvSet && defaults.IgnoreEnv != nil {
		ignoreEnv = *defaults.IgnoreEnv
	}

	return file, jobs, ignoreEnv, nil
}

// configure runs the -e chunk, then the build file.
func (a *App) configure(ctx context.Context, host *script.Host, eval, file string) error {
	if eval != "" {
		if err := host.EvalString(ctx, eval); err != nil {
			return err
		}
	}
	return host.EvalFile(ctx, file)
}
