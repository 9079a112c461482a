package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAndEnsureDBPath_CreatesParent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")

	got, err := ResolveAndEnsureDBPath(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveAndEnsureDBPath_Memory(t *testing.T) {
	got, err := ResolveAndEnsureDBPath(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", got)
}

func TestResolvePath_ExpandsHome(t *testing.T) {
	got, err := ResolvePath("~/journal.db")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(got, "~"))
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "journal.db", filepath.Base(got))
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "daybook.db", filepath.Base(GetDefaultDBPathOnly()))
	assert.Equal(t, "prefs", filepath.Base(GetDefaultPrefsDir()))
	assert.Equal(t, DefaultDataDir(), filepath.Dir(GetDefaultPrefsDir()))
}
