//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/libpack/internal/config"
	"github.com/oshokin/libpack/internal/tools/toolstest"
)

// TestNewToolchain_Defaults builds a toolchain without a config file.
func TestNewToolchain_Defaults(t *testing.T) {
	t.Parallel()

	tc, err := NewToolchain(context.Background(), "", "", new(toolstest.Runner))
	require.NoError(t, err)
	require.Equal(t, config.Default(), tc.Config)
	require.NotNil(t, tc.Inspector)
	require.NotNil(t, tc.Editor)
}

// TestNewToolchain_Errors covers a broken config file and a bad log level.
func TestNewToolchain_Errors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "libpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("local_prefixes: [relative/dir]\n"), 0o600))

	_, err := NewToolchain(context.Background(), path, "", nil)
	require.Error(t, err)

	_, err = NewToolchain(context.Background(), "", "chatty", nil)
	require.Error(t, err)
}
