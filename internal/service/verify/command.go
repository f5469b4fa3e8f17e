package verify

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/oshokin/libpack/internal/logger"
	"github.com/oshokin/libpack/internal/repository/manifest"
	"github.com/oshokin/libpack/internal/service/common"
	"github.com/oshokin/libpack/internal/tools"
)

var (
	// ErrManifestRequired is returned when no manifest path is given.
	ErrManifestRequired = errors.New("manifest path must be provided")
	// ErrMismatch is returned when a copy differs from its manifest entry.
	ErrMismatch = errors.New("packed library does not match manifest")
)

// Inspector reads linkage metadata of packed copies.
type Inspector interface {
	ListDependencies(ctx context.Context, path string) ([]tools.Entry, error)
	InstallName(ctx context.Context, path string) (string, error)
}

// Options are inputs accepted by the verify entry point.
type Options struct {
	// ManifestPath is the manifest written by a previous packing run.
	ManifestPath string
	// ConfigPath is an optional path to the libpack configuration.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Runner replaces the process runner; nil runs the real tools.
	Runner tools.Runner
}

// Run loads a manifest and checks the destination it describes.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "libpack-verify")

	if opts.ManifestPath == "" {
		return ErrManifestRequired
	}

	toolchain, err := common.NewToolchain(ctx, opts.ConfigPath, opts.LogLevel, opts.Runner)
	if err != nil {
		return err
	}

	packed, err := manifest.NewFileRepository(opts.ManifestPath).Load(ctx)
	if err != nil {
		return err
	}

	if err = Check(ctx, toolchain.Inspector, packed); err != nil {
		return err
	}

	logger.InfoKV(ctx, "All packed libraries match the manifest",
		"libraries", len(packed.Libraries), "destination", packed.Destination)

	return nil
}

// Check inspects every library of m inside m.Destination.
// All mismatches are reported together.
func Check(ctx context.Context, inspector Inspector, m *manifest.Manifest) error {
	var errs error

	for _, lib := range m.Libraries {
		path := filepath.Join(m.Destination, lib.Name)

		if err := checkLibrary(ctx, inspector, path, &lib); err != nil {
			logger.ErrorKV(ctx, "Verification failed", "library", lib.Name, "error", err)
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

func checkLibrary(ctx context.Context, inspector Inspector, path string, lib *manifest.Library) error {
	if lib.ID != "" {
		id, err := inspector.InstallName(ctx, path)
		if err != nil {
			return fmt.Errorf("%s: %w", lib.Name, err)
		}

		if id != lib.ID {
			return fmt.Errorf("%s: install name %q, want %q: %w", lib.Name, id, lib.ID, ErrMismatch)
		}
	}

	entries, err := inspector.ListDependencies(ctx, path)
	if err != nil {
		return fmt.Errorf("%s: %w", lib.Name, err)
	}

	references := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		references[entry.Path] = struct{}{}
	}

	var errs error

	for _, dep := range lib.Dependencies {
		if _, ok := references[dep.Rewritten]; !ok {
			errs = multierr.Append(errs,
				fmt.Errorf("%s: missing reference %q: %w", lib.Name, dep.Rewritten, ErrMismatch))
		}

		if _, ok := references[dep.Original]; ok && dep.Original != dep.Rewritten {
			errs = multierr.Append(errs,
				fmt.Errorf("%s: still references %q: %w", lib.Name, dep.Original, ErrMismatch))
		}
	}

	return errs
}
