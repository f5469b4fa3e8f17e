package dependency

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/libpack/internal/domain/library"
)

// graphScanner serves libraries from an in-memory graph and counts scans.
type graphScanner struct {
	// edges maps a path to the paths it depends on.
	edges map[string][]string
	// scans counts Scan calls per path.
	scans map[string]int
}

func newGraphScanner(edges map[string][]string) *graphScanner {
	return &graphScanner{
		edges: edges,
		scans: make(map[string]int),
	}
}

// Scan builds a library for path from the configured edges.
func (g *graphScanner) Scan(_ context.Context, path string) (*library.Library, error) {
	g.scans[path]++

	deps, ok := g.edges[path]
	if !ok {
		return nil, fmt.Errorf("scan %s: unknown binary", path)
	}

	lib := library.New(path)
	for _, dep := range deps {
		lib.Dependencies[dep] = &library.Dependency{
			Name:   filepath.Base(dep),
			Path:   dep,
			Target: dep,
		}
	}

	return lib, nil
}

// TestResolve_Diamond visits the shared dependency exactly once.
func TestResolve_Diamond(t *testing.T) {
	t.Parallel()

	scanner := newGraphScanner(map[string][]string{
		"/app/A":           {"/usr/local/lib/B", "/usr/local/lib/C"},
		"/usr/local/lib/B": {"/usr/local/lib/D"},
		"/usr/local/lib/C": {"/usr/local/lib/D"},
		"/usr/local/lib/D": nil,
	})

	tree, err := Resolve(context.Background(), scanner, "/app/A")
	require.NoError(t, err)
	require.Equal(t, 4, tree.Len())
	require.Equal(t, 1, scanner.scans["/usr/local/lib/D"])

	var names []string
	for _, lib := range tree.Libraries() {
		names = append(names, lib.Name)
	}

	require.Equal(t, []string{"A", "B", "D", "C"}, names)
}

// TestResolve_Cycle terminates on mutually dependent libraries.
func TestResolve_Cycle(t *testing.T) {
	t.Parallel()

	scanner := newGraphScanner(map[string][]string{
		"/app/A":           {"/usr/local/lib/B"},
		"/usr/local/lib/B": {"/usr/local/lib/C"},
		"/usr/local/lib/C": {"/usr/local/lib/B"},
	})

	tree, err := Resolve(context.Background(), scanner, "/app/A")
	require.NoError(t, err)
	require.Equal(t, 3, tree.Len())
	require.Equal(t, 1, scanner.scans["/usr/local/lib/B"])
	require.Equal(t, 1, scanner.scans["/usr/local/lib/C"])
}

// TestResolve_SingleBinary yields the root alone when nothing qualifies.
func TestResolve_SingleBinary(t *testing.T) {
	t.Parallel()

	tree, err := Resolve(context.Background(), newGraphScanner(map[string][]string{"/app/A": nil}), "/app/A")
	require.NoError(t, err)
	require.Equal(t, 1, tree.Len())

	root, ok := tree.Get("A")
	require.True(t, ok)
	require.Empty(t, root.Dependencies)
}

// TestResolve_Errors covers scanner failures, name conflicts and cancellation.
func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	// Unknown dependency fails the whole run.
	_, err := Resolve(context.Background(), newGraphScanner(map[string][]string{
		"/app/A": {"/usr/local/lib/B"},
	}), "/app/A")
	require.Error(t, err)

	// Two libraries packed under the same name.
	_, err = Resolve(context.Background(), newGraphScanner(map[string][]string{
		"/opt/app/bin/A":          {"/usr/local/x/libz.dylib", "/usr/local/y/libz.dylib"},
		"/usr/local/x/libz.dylib": nil,
		"/usr/local/y/libz.dylib": nil,
	}), "/opt/app/bin/A")
	require.ErrorIs(t, err, library.ErrNameConflict)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Resolve(ctx, newGraphScanner(map[string][]string{"/app/A": nil}), "/app/A")
	require.ErrorIs(t, err, context.Canceled)
}

// TestResolve_WithScanner resolves a real file layout through the fake tools.
func TestResolve_WithScanner(t *testing.T) {
	t.Parallel()

	sb := newSandbox(t)

	var (
		app  = filepath.Join(sb.root, "app")
		libA = sb.lib("lib", "liba.dylib")
		libB = sb.lib("lib", "libb.dylib")
		libC = sb.lib("lib", "libc.dylib")
		libD = sb.lib("lib", "libd.dylib")
	)

	sb.write(t, libD, libD)
	sb.write(t, libB, libB, libD)
	sb.write(t, libC, libC, libD, "/usr/lib/libc++.1.dylib")
	sb.write(t, libA, libA, libB, libC)
	sb.write(t, app, "", libA, "/usr/lib/libSystem.B.dylib")

	tree, err := Resolve(context.Background(), sb.scanner(), app)
	require.NoError(t, err)
	require.Equal(t, 5, tree.Len())
	require.Equal(t, 1, sb.runner.Count("otool", "-L", libD))
}
