package library

import (
	"errors"
	"fmt"
)

// ErrNameConflict is returned when two different binaries share a file name.
// Both would be packed into the same destination file.
var ErrNameConflict = errors.New("library name already taken by another path")

// Tree accumulates the libraries reached from a root binary.
// It is not safe for concurrent use.
type Tree struct {
	// order keeps names in discovery order.
	order []string
	// byName indexes libraries by their packed name.
	byName map[string]*Library
	// visited holds the canonical paths already inserted.
	visited map[string]struct{}
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		byName:  make(map[string]*Library),
		visited: make(map[string]struct{}),
	}
}

// Add inserts a library and marks its path as visited.
// Adding the same path twice is a no-op.
func (t *Tree) Add(lib *Library) error {
	if t.Visited(lib.Path) {
		return nil
	}

	if existing, ok := t.byName[lib.Name]; ok {
		return fmt.Errorf("%s at %s and %s: %w", lib.Name, existing.Path, lib.Path, ErrNameConflict)
	}

	t.order = append(t.order, lib.Name)
	t.byName[lib.Name] = lib
	t.visited[lib.Path] = struct{}{}

	return nil
}

// Visited reports whether a canonical path is already in the tree.
func (t *Tree) Visited(canonicalPath string) bool {
	_, ok := t.visited[canonicalPath]

	return ok
}

// Get returns the library packed under name.
func (t *Tree) Get(name string) (*Library, bool) {
	lib, ok := t.byName[name]

	return lib, ok
}

// Len returns the number of libraries in the tree.
func (t *Tree) Len() int {
	return len(t.order)
}

// Libraries returns the libraries in discovery order, root first.
func (t *Tree) Libraries() []*Library {
	libs := make([]*Library, 0, len(t.order))
	for _, name := range t.order {
		libs = append(libs, t.byName[name])
	}

	return libs
}
