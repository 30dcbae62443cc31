package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obuild/internal/adapters/fs"
)

func newGlob() *fs.Glob {
	return fs.NewGlob(fs.NewOracle())
}

func globFixture(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "net"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o750))
	for _, name := range []string{
		"main.c", "util.c", "util.h", "README",
		"src/a.c", "src/b.c", "src/notes.txt",
		"src/net/tcp.c",
		"docs/guide.md",
		".hidden.c",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o600))
	}
	t.Chdir(dir)
}

func TestGlob_CurrentDirectory(t *testing.T) {
	globFixture(t)

	got := strings.Fields(newGlob().Expand([]string{"*.c"}, false))
	assert.ElementsMatch(t, []string{"./main.c", "./util.c"}, got)
}

func TestGlob_Subdirectory(t *testing.T) {
	globFixture(t)

	got := strings.Fields(newGlob().Expand([]string{"src/*.c"}, false))
	assert.ElementsMatch(t, []string{"./src/a.c", "./src/b.c"}, got)
}

func TestGlob_DirectoryWildcardWithRemainder(t *testing.T) {
	globFixture(t)

	got := strings.Fields(newGlob().Expand([]string{"src/*/tcp.c"}, false))
	assert.ElementsMatch(t, []string{"./src/net/tcp.c"}, got)
}

func TestGlob_NestedWildcards(t *testing.T) {
	globFixture(t)

	got := strings.Fields(newGlob().Expand([]string{"*/*.c"}, false))
	assert.ElementsMatch(t, []string{"./src/a.c", "./src/b.c"}, got)
}

func TestGlob_NoMatchEmitsVerbatim(t *testing.T) {
	globFixture(t)

	assert.Equal(t, "*.zig", newGlob().Expand([]string{"*.zig"}, false))
}

func TestGlob_NoMatchSuppressed(t *testing.T) {
	globFixture(t)

	assert.Equal(t, "", newGlob().Expand([]string{"*.zig"}, true))
}

func TestGlob_LiteralPatternPassesThrough(t *testing.T) {
	globFixture(t)

	assert.Equal(t, "Makefile", newGlob().Expand([]string{"Makefile"}, false))
}

func TestGlob_HiddenFilesSkipped(t *testing.T) {
	globFixture(t)

	got := newGlob().Expand([]string{"*.c"}, false)
	assert.NotContains(t, got, ".hidden.c")
}

func TestGlob_MultiplePatterns(t *testing.T) {
	globFixture(t)

	got := strings.Fields(newGlob().Expand([]string{"*.h", "docs/*.md"}, false))
	assert.ElementsMatch(t, []string{"./util.h", "./docs/guide.md"}, got)
}

func TestGlob_ConsecutiveStarsCollapse(t *testing.T) {
	globFixture(t)

	got := strings.Fields(newGlob().Expand([]string{"**.c"}, false))
	assert.ElementsMatch(t, []string{"./main.c", "./util.c"}, got)
}

func TestGlob_InfixStar(t *testing.T) {
	globFixture(t)

	got := strings.Fields(newGlob().Expand([]string{"u*.h"}, false))
	assert.ElementsMatch(t, []string{"./util.h"}, got)
}
