package inspect

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oshokin/libpack/internal/dependency"
	"github.com/oshokin/libpack/internal/domain/library"
	"github.com/oshokin/libpack/internal/logger"
	"github.com/oshokin/libpack/internal/service/common"
	"github.com/oshokin/libpack/internal/tools"
)

// ErrFileRequired is returned when no binary is given.
var ErrFileRequired = errors.New("binary to inspect must be provided")

// Options are inputs accepted by the inspect entry point.
type Options struct {
	// File is the binary whose tree is printed.
	File string
	// ConfigPath is an optional path to the libpack configuration.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Runner replaces the process runner; nil runs the real tools.
	Runner tools.Runner
}

// Run resolves the tree of opts.File and logs it.
func Run(ctx context.Context, opts *Options) (*library.Tree, error) {
	ctx = logger.WithName(ctx, "libpack-tree")

	if opts.File == "" {
		return nil, ErrFileRequired
	}

	toolchain, err := common.NewToolchain(ctx, opts.ConfigPath, opts.LogLevel, opts.Runner)
	if err != nil {
		return nil, err
	}

	scanner := dependency.NewScanner(toolchain.Inspector, toolchain.Config)

	tree, err := dependency.Resolve(ctx, scanner, opts.File)
	if err != nil {
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}

	logger.Info(ctx, Describe(tree))

	return tree, nil
}

// Describe renders the tree, one block per library. Symlinked references
// are marked with [->] and show their target.
func Describe(tree *library.Tree) string {
	var builder strings.Builder

	builder.WriteString(strconv.Itoa(tree.Len()))

	for _, lib := range tree.Libraries() {
		builder.WriteString("\n---\n")
		builder.WriteString(lib.Name)
		builder.WriteString(": ")
		builder.WriteString(lib.Path)
		builder.WriteString("\n{\n")

		for _, dep := range lib.SortedDependencies() {
			if dep.IsLink {
				builder.WriteString("  [->] ")
				builder.WriteString(dep.Path)
				builder.WriteString(": ")
				builder.WriteString(dep.Target)
			} else {
				builder.WriteString("  [  ] ")
				builder.WriteString(dep.Target)
			}

			builder.WriteString("\n")
		}

		for _, rel := range lib.SortedRelatives() {
			builder.WriteString("  [@ ] ")
			builder.WriteString(rel.Reference)
			builder.WriteString("\n")
		}

		builder.WriteString("}")
	}

	return builder.String()
}
