// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

// nodeStore is the abstract unique table a Factory delegates node creation,
// reference counting, and garbage collection to. Two implementations are
// registered by name (spec.md §6/§9): "direct" (array plus separate-chaining
// hash-cons table, the authoritative backend) and "legacy" (Go-map-backed
// table, kept for comparison and for hosts where node-count growth is hard to
// predict ahead of time). Factory.Init falls back to "direct" and logs an
// INFO message if the requested name is not registered.
type nodeStore interface {
	// varnum returns the number of variables the store was configured with.
	varnum() int

	// size returns the current capacity of the node table (used and free).
	size() int

	// level, low, high expose the fields of a live node. Behaviour is
	// undefined if n is not a currently allocated node index.
	level(n int) int32
	low(n int) int
	high(n int) int

	// ithvar/nithvar return the node index of the positive/negative literal
	// for a variable level, as set up at construction time.
	ithvar(level int32) int
	nithvar(level int32) int

	// makenode returns the canonical node for (level, low, high), applying
	// the standard BDD reduction rule (low == high collapses to low) and
	// hash-consing against existing nodes. It triggers garbage collection,
	// and then a resize, if the table is exhausted. refstack names node
	// indices the caller has already computed and is still holding only in
	// a local variable (not yet linked into a parent node and not yet
	// externally ref-counted); a GC triggered by this call marks them live
	// in addition to the usual positive-refcount roots, mirroring the
	// teacher's bkernel.go/hkernel.go makenode(..., refstack []int).
	makenode(level int32, low, high int, refstack []int) (int, error)

	// addref/delref adjust the external reference count of a node. Counts
	// saturate at _MAXREFCOUNT and never go negative.
	addref(n int)
	delref(n int)
	refcount(n int) int32

	// gc runs a mark-sweep collection pass over the table now, outside of
	// the implicit trigger inside makenode. It is exposed so Factory.GC can
	// offer an explicit call, per spec.md's factory lifecycle operations;
	// Factory.GC passes a nil refstack since no recursive operation is ever
	// in flight between two public calls.
	gc(refstack []int) error

	// growVarnum raises the number of variables the store was configured
	// with to newVarnum, allocating ithvar/nithvar nodes for every added
	// level and bumping the terminals' sentinel level so they remain
	// "below" every variable (spec.md §3: "clients may grow varNum
	// monotonically"). newVarnum must be >= the current varnum.
	growVarnum(newVarnum int) error

	// allnodes calls f once for every live, non-terminal node currently in
	// the table, in implementation-defined order. Iteration stops early if f
	// returns false.
	allnodes(f func(id int, level int32, low, high int) bool)

	// stats returns a point-in-time snapshot of the store's bookkeeping
	// counters, used by Factory.Stats and the optional stats handler.
	stats() Stats

	// name identifies the backend, e.g. "direct" or "legacy".
	name() string
}

// Stats is a snapshot of a Factory's node-table and garbage-collection
// counters, grounded on the teacher's gcstat/Stats string renderers
// (stdio.go) but exposed as a structured value instead of a formatted string
// so callers (and the optional WithStatsHandler callback) can inspect it
// programmatically.
type Stats struct {
	Backend    string
	Variables  int
	NodesTotal int
	NodesUsed  int
	NodesFree  int
	Produced   int // total nodes ever allocated, including ones since collected
	GCRuns     int
	CacheStats []CacheStats
}
