// Package library contains the domain model of a resolved dependency tree:
// libraries, their absolute and relocatable references, and the Tree that
// accumulates them while the resolver walks the graph.
package library
