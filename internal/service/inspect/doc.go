// Package inspect prints the resolved dependency tree of a binary without
// copying or rewriting anything.
package inspect
