// Package tools wraps the platform utilities that inspect and rewrite
// Mach-O linkage metadata.
//
// Output of the inspection tool is parsed at exactly one place (listing.go)
// into typed entries, so the rest of libpack never touches tool text.
// Commands run through a Runner, which tests replace with the in-process
// fake from the toolstest package.
package tools
