// Package packager copies the dependency closure of a binary into a
// destination directory and rewrites every copy so it loads its
// dependencies from a deployment prefix instead of the build machine's
// library paths.
//
// Libraries are copied with go-update (write aside, verify checksum,
// rename), then install_name_tool rewrites the install name and each
// absolute reference. Relocatable references are reported and left alone.
// A marker file in the destination keeps two packers apart.
package packager
