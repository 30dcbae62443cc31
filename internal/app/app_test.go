package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obuild/internal/adapters/config"
	"go.trai.ch/obuild/internal/adapters/fs"
	"go.trai.ch/obuild/internal/adapters/shell"
	"go.trai.ch/obuild/internal/app"
	"go.trai.ch/obuild/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

func newApp() *app.App {
	oracle := fs.NewOracle()
	return app.New(
		config.NewLoader(nopLogger{}),
		shell.NewExecutor(nopLogger{}),
		oracle,
		fs.NewGlob(oracle),
		nopLogger{},
	)
}

func writeBuildFile(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(app.DefaultBuildFile, []byte(content), 0o600))
}

func TestBuild_MinimalCompile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("main.c", []byte("int main\n"), 0o600))
	writeBuildFile(t, `
		rule("app", "main.o", function() { shell("cat " + sources + " > " + target); });
		rule("%.o", "%.c", function() { shell("cp " + source + " " + target); });
	`)

	err := newApp().Build(context.Background(), app.Options{Target: "app"})
	require.NoError(t, err)

	data, err := os.ReadFile("app")
	require.NoError(t, err)
	assert.Equal(t, "int main\n", string(data))
}

func TestBuild_SecondRunIsIdempotent(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("main.c", []byte("x\n"), 0o600))
	writeBuildFile(t, `
		rule("app", "main.o", function() { shell("cat main.o > app; echo link >> runs.log"); });
		rule("%.o", "%.c", function() { shell("cp " + source + " " + target + "; echo cc >> runs.log"); });
	`)

	require.NoError(t, newApp().Build(context.Background(), app.Options{Target: "app"}))

	now := time.Now()
	require.NoError(t, os.Chtimes("main.c", now.Add(-2*time.Hour), now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes("main.o", now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes("app", now, now))

	require.NoError(t, newApp().Build(context.Background(), app.Options{Target: "app"}))

	data, err := os.ReadFile("runs.log")
	require.NoError(t, err)
	assert.Equal(t, "cc\nlink\n", string(data), "no body may run on the second pass")
}

func TestBuild_TouchedSourceRebuildsDownstream(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("main.c", []byte("x\n"), 0o600))
	writeBuildFile(t, `
		rule("app", "main.o", function() { shell("cat main.o > app; echo link >> runs.log"); });
		rule("%.o", "%.c", function() { shell("cp " + source + " " + target + "; echo cc >> runs.log"); });
	`)

	require.NoError(t, newApp().Build(context.Background(), app.Options{Target: "app"}))

	// Touch the source newer than everything downstream.
	now := time.Now()
	require.NoError(t, os.Chtimes("main.o", now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes("app", now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes("main.c", now, now))

	require.NoError(t, newApp().Build(context.Background(), app.Options{Target: "app"}))

	data, err := os.ReadFile("runs.log")
	require.NoError(t, err)
	assert.Equal(t, "cc\nlink\ncc\nlink\n", string(data))
}

func TestBuild_PartialFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	writeBuildFile(t, `
		rule("all", "a.o b.o", function() { shell("echo linked >> runs.log"); });
		rule("%.o", "", function() { shell("echo tried-" + target + " >> runs.log; false"); });
	`)

	err := newApp().Build(context.Background(), app.Options{Target: "all", Jobs: 2, JobsSet: true})
	require.Error(t, err)

	data, rerr := os.ReadFile("runs.log")
	require.NoError(t, rerr)
	// Both object tasks ran to completion; the link never happened.
	assert.Contains(t, string(data), "tried-a.o")
	assert.Contains(t, string(data), "tried-b.o")
	assert.NotContains(t, string(data), "linked")
}

func TestBuild_Action(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("junk.o", []byte("x"), 0o600))
	writeBuildFile(t, `action("clean", function() { shell("rm -f *.o"); });`)

	require.NoError(t, newApp().Build(context.Background(), app.Options{Target: "clean"}))
	assert.NoFileExists(t, "junk.o")
}

func TestBuild_PatternAmbiguity(t *testing.T) {
	t.Chdir(t.TempDir())
	writeBuildFile(t, `
		rule("%.o", "", function() { shell("true"); });
		rule("fo%", "", function() { shell("true"); });
	`)

	err := newApp().Build(context.Background(), app.Options{Target: "foo.o"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRuleRedefined)
	assert.Contains(t, err.Error(), "redefinition of rule 'foo.o'")
}

func TestBuild_DefaultTarget(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	writeBuildFile(t, `action("default", function() { echo("built default"); });`)

	require.NoError(t, newApp().Build(context.Background(), app.Options{Stdout: &out}))
	assert.Equal(t, "built default\n", out.String())
}

func TestBuild_NoTargets(t *testing.T) {
	t.Chdir(t.TempDir())
	writeBuildFile(t, `// nothing registered`)

	err := newApp().Build(context.Background(), app.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoTargets)
}

func TestBuild_MissingBuildFile(t *testing.T) {
	t.Chdir(t.TempDir())

	err := newApp().Build(context.Background(), app.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load build file")
}

func TestBuild_MissingTarget(t *testing.T) {
	t.Chdir(t.TempDir())
	writeBuildFile(t, `rule("app", "nope.c", function() { shell("true"); });`)

	err := newApp().Build(context.Background(), app.Options{Target: "app"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoRule)
	assert.Contains(t, err.Error(), "no rule to run target 'nope.c' (needed by 'app')")
}

func TestBuild_EvalStringRunsBeforeFile(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	writeBuildFile(t, `action("default", function() { echo(greeting); });`)

	opts := app.Options{Eval: `var greeting = "from eval";`, Stdout: &out}
	require.NoError(t, newApp().Build(context.Background(), opts))
	assert.Equal(t, "from eval\n", out.String())
}

func TestBuild_ChangesDirectory(t *testing.T) {
	base := t.TempDir()
	t.Chdir(base)
	sub := filepath.Join(base, "project")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(sub, app.DefaultBuildFile),
		[]byte(`action("default", function() { shell("touch here"); });`), 0o600))

	require.NoError(t, newApp().Build(context.Background(), app.Options{Dir: "project"}))
	assert.FileExists(t, filepath.Join(sub, "here"))
}

func TestBuild_DefaultsFileMerges(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	require.NoError(t, os.WriteFile(".obuild.yaml", []byte("file: custom.cfg\njobs: 2\n"), 0o600))
	require.NoError(t, os.WriteFile("custom.cfg",
		[]byte(`action("default", function() { echo("jobs " + numjobs); });`), 0o600))

	require.NoError(t, newApp().Build(context.Background(), app.Options{Stdout: &out}))
	assert.Equal(t, "jobs 2\n", out.String())
}

func TestBuild_ExplicitFlagBeatsDefaultsFile(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	require.NoError(t, os.WriteFile(".obuild.yaml", []byte("file: ignored.cfg\n"), 0o600))
	require.NoError(t, os.WriteFile("wanted.cfg",
		[]byte(`action("default", function() { echo("wanted"); });`), 0o600))

	opts := app.Options{File: "wanted.cfg", FileSet: true, Stdout: &out}
	require.NoError(t, newApp().Build(context.Background(), opts))
	assert.Equal(t, "wanted\n", out.String())
}

func TestBuild_Glob(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	require.NoError(t, os.Mkdir("src", 0o750))
	for _, name := range []string{"src/a.c", "src/b.c", "src/README"} {
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o600))
	}
	writeBuildFile(t, `action("default", function() { echo(glob("src/*.c")); });`)

	require.NoError(t, newApp().Build(context.Background(), app.Options{Stdout: &out}))
	got := out.String()
	assert.Contains(t, got, "./src/a.c")
	assert.Contains(t, got, "./src/b.c")
	assert.NotContains(t, got, "README")
}
