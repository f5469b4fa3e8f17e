package verify

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/oshokin/libpack/internal/repository/manifest"
	"github.com/oshokin/libpack/internal/tools"
	"github.com/oshokin/libpack/internal/tools/toolstest"
)

const prefix = "@executable_path/../Frameworks"

// writeDestination creates a packed destination and its manifest.
func writeDestination(t *testing.T, fooID string, appDeps ...string) *manifest.Manifest {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, toolstest.WriteImage(filepath.Join(dir, "app"), toolstest.Image{Dependencies: appDeps}))
	require.NoError(t, toolstest.WriteImage(filepath.Join(dir, "libfoo.dylib"), toolstest.Image{ID: fooID}))

	return &manifest.Manifest{
		Prefix:      prefix,
		Destination: dir,
		Libraries: []manifest.Library{
			{
				Name: "app",
				Dependencies: []manifest.Dependency{{
					Name:      "libfoo.dylib",
					Original:  "/usr/local/lib/libfoo.dylib",
					Rewritten: prefix + "/libfoo.dylib",
				}},
			},
			{
				Name: "libfoo.dylib",
				ID:   prefix + "/libfoo.dylib",
			},
		},
	}
}

// TestCheck_Passes accepts a correctly rewritten destination.
func TestCheck_Passes(t *testing.T) {
	t.Parallel()

	m := writeDestination(t, prefix+"/libfoo.dylib", prefix+"/libfoo.dylib", "/usr/lib/libSystem.B.dylib")
	inspector := tools.NewInspector(new(toolstest.Runner), "otool")

	require.NoError(t, Check(context.Background(), inspector, m))
}

// TestCheck_ReportsEveryMismatch aggregates all failures.
func TestCheck_ReportsEveryMismatch(t *testing.T) {
	t.Parallel()

	m := writeDestination(t, "/usr/local/lib/libfoo.dylib", "/usr/local/lib/libfoo.dylib")
	inspector := tools.NewInspector(new(toolstest.Runner), "otool")

	err := Check(context.Background(), inspector, m)
	require.ErrorIs(t, err, ErrMismatch)
	require.Len(t, multierr.Errors(err), 3)
}

// TestRun loads the manifest from disk.
func TestRun(t *testing.T) {
	t.Parallel()

	m := writeDestination(t, prefix+"/libfoo.dylib", prefix+"/libfoo.dylib")
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, manifest.NewFileRepository(path).Save(context.Background(), m))

	require.NoError(t, Run(context.Background(), &Options{ManifestPath: path, Runner: new(toolstest.Runner)}))

	require.ErrorIs(t, Run(context.Background(), &Options{Runner: new(toolstest.Runner)}), ErrManifestRequired)

	err := Run(context.Background(), &Options{
		ManifestPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Runner:       new(toolstest.Runner),
	})
	require.ErrorIs(t, err, manifest.ErrNotFound)
}
