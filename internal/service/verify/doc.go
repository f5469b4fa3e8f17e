// Package verify re-inspects a packed destination and checks that every
// copy carries the install name and references recorded in its manifest.
package verify
