package dependency

import (
	"context"
	"fmt"

	"github.com/oshokin/libpack/internal/domain/library"
	"github.com/oshokin/libpack/internal/logger"
)

// LibraryScanner inspects a single binary.
type LibraryScanner interface {
	Scan(ctx context.Context, path string) (*library.Library, error)
}

// Resolve builds the dependency closure of the binary at root.
//
// Every library is added to the tree before its dependencies are visited,
// and the tree's visited set (keyed by canonical path) is checked before
// every scan, so each library is scanned once and cycles terminate.
func Resolve(ctx context.Context, scanner LibraryScanner, root string) (*library.Tree, error) {
	tree := library.NewTree()

	if err := visit(ctx, scanner, tree, root); err != nil {
		return nil, err
	}

	return tree, nil
}

func visit(ctx context.Context, scanner LibraryScanner, tree *library.Tree, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if tree.Visited(path) {
		return nil
	}

	lib, err := scanner.Scan(ctx, path)
	if err != nil {
		return err
	}

	// The root may be reached through a symlink.
	if tree.Visited(lib.Path) {
		return nil
	}

	if err = tree.Add(lib); err != nil {
		return fmt.Errorf("add %s: %w", lib.Path, err)
	}

	logger.DebugKV(ctx, "Scanned library",
		"name", lib.Name, "dependencies", len(lib.Dependencies), "relatives", len(lib.Relatives))

	for _, dep := range lib.SortedDependencies() {
		if tree.Visited(dep.Target) {
			continue
		}

		if err = visit(ctx, scanner, tree, dep.Target); err != nil {
			return err
		}
	}

	return nil
}
