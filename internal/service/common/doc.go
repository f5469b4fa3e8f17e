// Package common contains helpers shared by the libpack commands.
//
// It wires the configured inspection and rewriting tools together so that
// the pack, tree and verify commands build their toolchain the same way.
package common
