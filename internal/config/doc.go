// Package config defines the packing rules used by libpack and provides
// helpers to load, validate and save them in YAML format.
//
// The rules name the libraries that are never packed (ignore patterns),
// the prefixes whose libraries are packed, and the inspection and rewriting
// tools invoked on every binary.
package config
