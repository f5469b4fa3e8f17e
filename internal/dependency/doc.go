// Package dependency turns a binary into its dependency closure.
//
// Scanner inspects one binary and classifies every reference it records:
// ignored system frameworks are dropped, relocatable references (@rpath and
// friends) are kept for reporting, and absolute references under a local
// prefix become dependencies. Resolve walks those dependencies depth-first
// and accumulates every reachable library into a library.Tree.
package dependency
