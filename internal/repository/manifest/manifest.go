package manifest

import (
	"strings"

	"github.com/oshokin/libpack/internal/domain/library"
	"github.com/oshokin/libpack/internal/version"
)

// Manifest describes a packed destination directory.
type Manifest struct {
	// Version is the libpack version that produced the manifest.
	Version string `yaml:"version"`
	// Prefix is the deployment path prefix used for rewriting.
	Prefix string `yaml:"prefix"`
	// Destination is the directory holding the copies.
	Destination string `yaml:"destination"`
	// Libraries lists copied libraries in packing order.
	Libraries []Library `yaml:"libraries"`
}

// Library is one copied binary.
type Library struct {
	// Name is the file name inside Destination.
	Name string `yaml:"name"`
	// Source is the file the copy was made from.
	Source string `yaml:"source"`
	// ID is the install name written into the copy; empty for executables.
	ID string `yaml:"id,omitempty"`
	// Dependencies lists rewritten references.
	Dependencies []Dependency `yaml:"dependencies,omitempty"`
	// Relatives lists relocatable references left untouched.
	Relatives []string `yaml:"relatives,omitempty"`
}

// Dependency is one rewritten reference.
type Dependency struct {
	// Name is the referenced library's packed name.
	Name string `yaml:"name"`
	// Original is the reference before rewriting.
	Original string `yaml:"original"`
	// Rewritten is the reference after rewriting.
	Rewritten string `yaml:"rewritten"`
	// Link marks originals that were symbolic links.
	Link bool `yaml:"link,omitempty"`
}

// PackedPath joins the deployment prefix and a library name.
func PackedPath(prefix, name string) string {
	return strings.TrimRight(prefix, "/") + "/" + name
}

// FromTree describes how tree is packed into destination under prefix.
func FromTree(tree *library.Tree, destination, prefix string) *Manifest {
	m := &Manifest{
		Version:     version.Short(),
		Prefix:      prefix,
		Destination: destination,
		Libraries:   make([]Library, 0, tree.Len()),
	}

	for _, lib := range tree.Libraries() {
		entry := Library{
			Name:   lib.Name,
			Source: lib.Path,
		}

		if lib.InstallName != "" {
			entry.ID = PackedPath(prefix, lib.Name)
		}

		for _, dep := range lib.SortedDependencies() {
			entry.Dependencies = append(entry.Dependencies, Dependency{
				Name:      dep.Name,
				Original:  dep.Path,
				Rewritten: PackedPath(prefix, dep.Name),
				Link:      dep.IsLink,
			})
		}

		for _, rel := range lib.SortedRelatives() {
			entry.Relatives = append(entry.Relatives, rel.Display())
		}

		m.Libraries = append(m.Libraries, entry)
	}

	return m
}
