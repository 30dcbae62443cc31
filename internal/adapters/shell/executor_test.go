package shell_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obuild/internal/adapters/shell"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

func TestExecutor_Success(t *testing.T) {
	e := shell.NewExecutor(nopLogger{})
	assert.NoError(t, e.Execute(context.Background(), "true"))
}

func TestExecutor_FailureReturnsError(t *testing.T) {
	e := shell.NewExecutor(nopLogger{})
	err := e.Execute(context.Background(), "exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
}

func TestExecutor_RunsThroughShell(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	e := shell.NewExecutor(nopLogger{})
	require.NoError(t, e.Execute(context.Background(), "echo done > "+marker))

	data, err := os.ReadFile(marker) //nolint:gosec // test fixture
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(data))
}

func TestExecutor_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := shell.NewExecutor(nopLogger{})
	err := e.Execute(ctx, "sleep 10")
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
