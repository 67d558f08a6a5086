// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package rudd implements Binary Decision Diagrams (BDD), a data structure used
to represent Boolean functions over a fixed set of variables, or equivalently
sets of Boolean vectors of fixed size.

Basics

A BDD is built from a Factory, obtained with Init, which fixes the number of
variables (Varnum) available to the diagrams it produces. Variables are
identified by an integer index in the interval [0..Varnum) and every BDD
produced from the same Factory shares one canonical, hash-consed node table.
Operations over BDD return a Node, an owning handle on a vertex of the shared
DAG. Node 0 is always the constant False and node 1 is always the constant
True.

Backends

The unique table underlying a Factory can be one of two implementations,
selected by name when calling Init: "direct", an array of nodes with
separate-chaining hash buckets (a direct port of the data structures used by
the C library BuDDy), and "legacy", the same algorithms backed by a Go runtime
map. Both satisfy the same nodeStore contract, so the recursive algorithms in
operations.go are written once and work unmodified against either backend. An
unknown backend name falls back to "direct" and is logged at INFO level.

Memory management

Handles are reference counted explicitly: a Node protects its root from
garbage collection until it is Free'd (or until the factory itself is
discarded). The package does not rely on finalizers or on the host runtime's
garbage collector to reclaim BDD nodes; Free must be called by the owner of a
handle, mirroring the C/Java libraries this package is modeled on.
*/
package rudd
