package library

import (
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Dependency is a library reference recorded with an absolute path.
type Dependency struct {
	// Name is the base name of Target, also the packed file name.
	Name string
	// IsLink is true when Path itself is a symbolic link.
	IsLink bool
	// Path is the reference exactly as recorded in the binary.
	Path string
	// Target is Path with every symlink resolved.
	Target string
}

// RelativeReference is a library reference made through a relocatable
// token such as @rpath. It is reported but never rewritten.
type RelativeReference struct {
	// Name is the base name of Target.
	Name string
	// Reference is the reference exactly as recorded in the binary.
	Reference string
	// Target is the reference resolved against the scanned binary's directory.
	Target string
	// Dir is the directory part of the reference after the token.
	Dir string
}

// Display returns the reference the way it lives next to the binary.
func (r *RelativeReference) Display() string {
	if r.Dir == "" {
		return r.Name
	}

	return path.Join(r.Dir, r.Name)
}

// Library is a binary reached while resolving the tree.
type Library struct {
	// Name is the base name of Path.
	Name string
	// Path is the canonical location of the binary.
	Path string
	// InstallName is the self-identifier recorded in the binary; empty for executables.
	InstallName string
	// Dependencies are keyed by Dependency.Target.
	Dependencies map[string]*Dependency
	// Relatives are keyed by RelativeReference.Name.
	Relatives map[string]*RelativeReference
}

// New creates an empty library for the canonical path.
func New(canonicalPath string) *Library {
	return &Library{
		Name:         filepath.Base(canonicalPath),
		Path:         canonicalPath,
		Dependencies: make(map[string]*Dependency),
		Relatives:    make(map[string]*RelativeReference),
	}
}

// SortedDependencies returns dependencies ordered by target path.
func (l *Library) SortedDependencies() []*Dependency {
	deps := make([]*Dependency, 0, len(l.Dependencies))
	for _, dep := range l.Dependencies {
		deps = append(deps, dep)
	}

	slices.SortFunc(deps, func(a, b *Dependency) int {
		return strings.Compare(a.Target, b.Target)
	})

	return deps
}

// SortedRelatives returns relative references ordered by name.
func (l *Library) SortedRelatives() []*RelativeReference {
	rels := make([]*RelativeReference, 0, len(l.Relatives))
	for _, rel := range l.Relatives {
		rels = append(rels, rel)
	}

	slices.SortFunc(rels, func(a, b *RelativeReference) int {
		return strings.Compare(a.Name, b.Name)
	})

	return rels
}
