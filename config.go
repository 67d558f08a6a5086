// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

// configs stores the configurable parameters of a Factory, set through
// functional options passed to Init.
type configs struct {
	varnum          int // number of BDD variables
	nodesize        int // initial number of nodes in the table
	cachesize       int // initial cache size (general)
	cacheratio      int // initial ratio (general, 0 if size constant) between cache size and node table
	maxnodesize     int // Maximum total number of nodes (0 if no limit)
	maxnodeincrease int // Maximum number of nodes that can be added to the table at each resize (0 if no limit)
	minfreenodes    int // Percentage of free nodes after GC; stored but not read by either backend
	logger          Logger
	statshandler    func(Stats)
}

func makeconfigs(varnum int) *configs {
	c := &configs{varnum: varnum}
	c.minfreenodes = _MINFREENODES
	c.maxnodeincrease = _DEFAULTMAXNODEINC
	// we build enough nodes to include all the variables in varset
	c.nodesize = 2*varnum + 2
	c.cachesize = _DEFAULTCACHESIZE
	c.logger = nopLogger{}
	return c
}

// Option configures a Factory at Init time.
type Option func(*configs)

// Nodesize sets a preferred initial size for the node table. The size of the
// BDD can grow during computation; by default we create a table large enough
// to include the two constants and the variables used by Ithvar/NIthvar.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize sets a limit to the number of nodes in the Factory. An
// operation that would raise the number of nodes above this limit returns an
// OutOfMemoryError. The default value (0) means there is no limit, in which
// case allocation can panic if the host runs out of memory.
func Maxnodesize(size int) Option {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease sets a limit on the increase in size of the node table at
// each resize. Below this limit the table typically doubles in size. The
// default is about one million nodes; zero means no limit.
func Maxnodeincrease(size int) Option {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes records a percentage of free nodes to keep after a garbage
// collection (default 20). Neither backend reads this value: both grow the
// node table only when a garbage collection frees no node at all, whatever
// fraction of the table is left free.
func Minfreenodes(ratio int) Option {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize sets the initial number of entries in each operator cache. The
// default is 10 000.
func Cachesize(size int) Option {
	return func(c *configs) {
		c.cachesize = size
	}
}

// Cacheratio sets the number of node-table slots per cache entry: after an
// operation, any cache smaller than the node-table size divided by ratio is
// resized to that many entries, so caches grow with the node table. The
// default (0) means caches never grow automatically.
func Cacheratio(ratio int) Option {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}

// WithLogger installs the Logger used to report node-table resize and
// backend-fallback events (at INFO level) and operation errors. Garbage
// collections are not logged; use WithStatsHandler to observe them. The
// default discards all messages.
func WithLogger(l Logger) Option {
	return func(c *configs) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStatsHandler installs a callback invoked with a Stats snapshot after
// every garbage collection.
func WithStatsHandler(f func(Stats)) Option {
	return func(c *configs) {
		c.statshandler = f
	}
}
