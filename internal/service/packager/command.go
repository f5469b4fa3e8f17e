package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/libpack/internal/dependency"
	"github.com/oshokin/libpack/internal/domain/library"
	"github.com/oshokin/libpack/internal/logger"
	"github.com/oshokin/libpack/internal/repository/manifest"
	"github.com/oshokin/libpack/internal/service/common"
	"github.com/oshokin/libpack/internal/service/verify"
	"github.com/oshokin/libpack/internal/tools"
)

// destinationMode is the permission of a created destination directory.
const destinationMode = 0o755

var (
	// ErrFileRequired is returned when no binary to pack is given.
	ErrFileRequired = errors.New("binary to pack must be provided")
	// ErrDestinationRequired is returned when no destination directory is given.
	ErrDestinationRequired = errors.New("destination directory must be provided")
	// ErrPackPathRequired is returned when no deployment prefix is given.
	ErrPackPathRequired = errors.New("package path must be provided")
)

// Options contains inputs for the packager entry point.
type Options struct {
	// File is the binary whose dependency closure gets packed.
	File string
	// Destination is the directory receiving the copies; created if absent.
	Destination string
	// PackPath is the prefix the copies are loaded from at run time,
	// for example @executable_path/../Frameworks.
	PackPath string
	// ConfigPath is an optional path to the packing rules (defaults when empty).
	ConfigPath string
	// ManifestPath, when set, receives a YAML record of the run.
	ManifestPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Verify re-inspects every copy after packing.
	Verify bool
	// Runner replaces the process runner; nil runs the real tools.
	Runner tools.Runner
}

// packager holds the state of a single packing run.
// It is unexported; callers should use Run, which encapsulates setup and validation.
type packager struct {
	// opts are the validated inputs.
	opts *Options
	// toolchain holds the configuration and the tool wrappers.
	toolchain *common.Toolchain
}

// Run executes the packing workflow: resolve, copy, rewrite.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "libpack")

	if err := opts.validate(); err != nil {
		return err
	}

	toolchain, err := common.NewToolchain(ctx, opts.ConfigPath, opts.LogLevel, opts.Runner)
	if err != nil {
		return fmt.Errorf("initialize packager: %w", err)
	}

	p := &packager{
		opts:      opts,
		toolchain: toolchain,
	}

	if err = p.Run(ctx); err != nil {
		return fmt.Errorf("packager failed: %w", err)
	}

	return nil
}

// validate checks required inputs and normalizes the pack path.
func (o *Options) validate() error {
	switch {
	case o.File == "":
		return ErrFileRequired
	case o.Destination == "":
		return ErrDestinationRequired
	case o.PackPath == "":
		return ErrPackPathRequired
	}

	if trimmed := strings.TrimRight(o.PackPath, "/"); trimmed != "" {
		o.PackPath = trimmed
	}

	return nil
}

// Run resolves the tree and packs every library into the destination.
func (p *packager) Run(ctx context.Context) error {
	p.logArguments(ctx)

	if err := os.MkdirAll(p.opts.Destination, destinationMode); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	lock, err := acquireMarker(ctx, p.opts.Destination, packerExecutable)
	if err != nil {
		return err
	}

	defer lock.Release(ctx)

	scanner := dependency.NewScanner(p.toolchain.Inspector, p.toolchain.Config)

	tree, err := dependency.Resolve(ctx, scanner, p.opts.File)
	if err != nil {
		return fmt.Errorf("resolve dependencies: %w", err)
	}

	logger.Infof(ctx, "%d dependant libraries to pack", tree.Len())

	for _, lib := range tree.Libraries() {
		if err = p.packLibrary(ctx, lib); err != nil {
			return fmt.Errorf("pack %s: %w", lib.Name, err)
		}
	}

	packed := manifest.FromTree(tree, p.opts.Destination, p.opts.PackPath)

	if p.opts.ManifestPath != "" {
		repo := manifest.NewFileRepository(p.opts.ManifestPath)
		if err = repo.Save(ctx, packed); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Saved manifest", "path", repo.Path())
	}

	if p.opts.Verify {
		if err = verify.Check(ctx, p.toolchain.Inspector, packed); err != nil {
			return err
		}

		logger.Info(ctx, "Verified packed libraries")
	}

	logger.InfoKV(ctx, "Packing completed",
		"libraries", tree.Len(), "destination", p.opts.Destination)

	return nil
}

// packLibrary copies one library and rewrites its install name and references.
func (p *packager) packLibrary(ctx context.Context, lib *library.Library) error {
	ctx = logger.WithKV(ctx, "library", lib.Name)
	target := filepath.Join(p.opts.Destination, lib.Name)

	logger.DebugKV(ctx, "Copying library", "from", lib.Path, "to", target)

	if err := copyLibrary(lib.Path, target); err != nil {
		return fmt.Errorf("copy: %w", err)
	}

	editor := p.toolchain.Editor

	if lib.InstallName != "" {
		output, err := editor.SetID(ctx, target, manifest.PackedPath(p.opts.PackPath, lib.Name))
		if err != nil {
			return fmt.Errorf("change install name: %w", err)
		}

		logToolOutput(ctx, output)
	}

	for _, dep := range lib.SortedDependencies() {
		output, err := editor.Change(ctx, target, dep.Path, manifest.PackedPath(p.opts.PackPath, dep.Name))
		if err != nil {
			return fmt.Errorf("change reference %s: %w", dep.Path, err)
		}

		logToolOutput(ctx, output)
	}

	logger.Info(ctx, describeLibrary(lib, p.opts.PackPath))

	return nil
}

// logArguments prints the inputs of the run.
func (p *packager) logArguments(ctx context.Context) {
	logger.Info(ctx, "Pack library")
	logger.Info(ctx, "Arguments:")

	if resolved, err := filepath.EvalSymlinks(p.opts.File); err == nil && resolved != filepath.Clean(p.opts.File) {
		logger.Infof(ctx, "Library: %s: %s", p.opts.File, resolved)
	} else {
		logger.Infof(ctx, "Library: %s", p.opts.File)
	}

	logger.Infof(ctx, "Destination: %s", p.opts.Destination)
	logger.Infof(ctx, "Package path: %s", manifest.PackedPath(p.opts.PackPath, "<dependency-lib>"))
}

func logToolOutput(ctx context.Context, output string) {
	if output != "" {
		logger.Info(ctx, output)
	}
}
