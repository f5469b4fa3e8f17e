package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCopyLibrary copies into a fresh target and overwrites an existing one.
func TestCopyLibrary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "libsrc.dylib")
	target := filepath.Join(dir, "out", "libsrc.dylib")

	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(source, []byte("first"), 0o644))
	require.NoError(t, copyLibrary(source, target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "first", string(got))

	require.NoError(t, os.WriteFile(source, []byte("second"), 0o644))
	require.NoError(t, copyLibrary(source, target))

	got, err = os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	info, err := os.Stat(target)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0o100)

	// Missing source.
	require.ErrorIs(t, copyLibrary(filepath.Join(dir, "missing"), target), os.ErrNotExist)

	// Unwritable destination directory.
	require.Error(t, copyLibrary(source, filepath.Join(dir, "absent", "libsrc.dylib")))
}
