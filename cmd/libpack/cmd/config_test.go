package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/libpack/internal/config"
)

// TestConfigCommand writes a default configuration that loads back.
func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libpack.yaml")

	var out bytes.Buffer

	configCmd.SetOut(&out)
	require.NoError(t, configCmd.RunE(configCmd, []string{path}))
	require.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}
