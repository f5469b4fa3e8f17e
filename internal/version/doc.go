// Package version exposes libpack build metadata.
//
// Version, Commit and BuildTime are injected with -ldflags "-X ..." by the
// release build and keep their defaults for local builds. The version is
// also recorded in every manifest libpack writes.
package version
