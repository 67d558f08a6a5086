// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import "github.com/pkg/errors"

// backendCtor builds a nodeStore from a configs value; registered by name so
// Init can pick one at runtime (spec.md §6/§9).
type backendCtor func(*configs) (nodeStore, error)

var backends = map[string]backendCtor{
	"direct": func(c *configs) (nodeStore, error) { return newDirectStore(c) },
	"legacy": func(c *configs) (nodeStore, error) { return newLegacyStore(c) },
}

const defaultBackend = "direct"

var factoryCounter uint64

// Factory owns one BDD universe: a node table (delegated to a nodeStore
// backend), the operator caches, and the pairing dedup table. All Node
// handles carry the Factory they were minted from; mixing handles from two
// factories is a CrossFactoryError, and using a handle after Factory.Reset
// is a UseAfterFreeError (the epoch counter distinguishes generations).
//
// Grounded on the teacher's BDD interface (bdd.go) and the lifecycle split
// across New/config.go, generalized to carry explicit reference counting
// instead of relying on Go finalizers (spec.md §5 redesign).
type Factory struct {
	id       uint64
	epoch    uint64
	store    nodeStore
	caches   *caches
	cfg      *configs
	logger   Logger
	error    error
	pairings []*Pairing

	// refstack holds node indices computed mid-recursion (apply/ite/quant/
	// replace/...) that are not yet linked into a parent node and not yet
	// externally ref-counted, so a GC triggered by a nested makenode call
	// still marks them live. Grounded on the teacher's gc.go
	// pushref/popref/initref and buddy.go/hudd.go's sizing of the slice to
	// 2*varnum+4. Cleared after every top-level public operation by
	// ops.go's result().
	refstack []int
}

// Init builds a new Factory with varNum Boolean variables (levels 0 ..
// varNum-1), using the backend registered under name. An unknown name falls
// back to "direct" and logs an INFO message through the configured logger (or
// the discarding default if none is set).
func Init(name string, varNum int, opts ...Option) (*Factory, error) {
	if varNum < 0 {
		return nil, newConfigurationError("variable count must be >= 0, got %d", varNum)
	}
	cfg := makeconfigs(varNum)
	for _, o := range opts {
		o(cfg)
	}

	ctor, ok := backends[name]
	if !ok {
		cfg.logger.Infof("rudd: unknown backend %q, falling back to %q", name, defaultBackend)
		ctor = backends[defaultBackend]
		name = defaultBackend
	}

	store, err := ctor(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "rudd: initializing %q backend", name)
	}

	factoryCounter++
	f := &Factory{
		id:       factoryCounter,
		store:    store,
		caches:   newCaches(cfg.cachesize),
		cfg:      cfg,
		logger:   cfg.logger,
		refstack: make([]int, 0, 2*varNum+4),
	}
	return f, nil
}

// pushref appends n to the refstack, protecting it from a GC triggered by a
// later, nested makenode call, and returns n unchanged so call sites can
// wrap an expression: lo := f.pushref(f.apply(...)). Mirrors the teacher's
// gc.go pushref.
func (f *Factory) pushref(n int) int {
	f.refstack = append(f.refstack, n)
	return n
}

// popref removes the count most recently pushed refstack entries, once the
// caller has linked them into a parent node (itself now protected by its own
// caller's refstack entry, or by makenode's own hash-cons result). Mirrors
// the teacher's gc.go popref.
func (f *Factory) popref(count int) {
	n := len(f.refstack) - count
	if n < 0 {
		n = 0
	}
	f.refstack = f.refstack[:n]
}

// Varnum returns the number of variables the factory was configured with.
func (f *Factory) Varnum() int { return f.store.varnum() }

// Backend returns the name of the nodeStore implementation in use.
func (f *Factory) Backend() string { return f.store.name() }

// Stats returns a snapshot of the node table and cache counters.
func (f *Factory) Stats() Stats {
	s := f.store.stats()
	s.CacheStats = f.caches.stats()
	return s
}

// GC runs an explicit garbage-collection pass, outside of the implicit
// trigger that fires inside node creation when the table is exhausted. The
// operator caches are invalidated too, since cached node indices may have
// been reused for different nodes by the time of the next lookup... in
// practice they are cleared defensively on every GC regardless.
func (f *Factory) GC() error {
	if err := f.store.gc(nil); err != nil {
		f.seterror(err)
		return err
	}
	f.caches.clear()
	return nil
}

// SetVarnum grows the number of variables the factory knows about to newNum,
// adding fresh ithvar/nithvar nodes for every added level. It is an error to
// call it with a value smaller than the current Varnum (spec.md §3 only
// allows monotonic growth); grounded on the teacher's varnum.go SetVarnum.
func (f *Factory) SetVarnum(newNum int) error {
	if newNum < f.store.varnum() {
		err := newConfigurationError("cannot shrink Varnum from %d to %d", f.store.varnum(), newNum)
		f.seterror(err)
		return err
	}
	if err := f.store.growVarnum(newNum); err != nil {
		f.seterror(err)
		return err
	}
	f.caches.clear()
	return nil
}

// ExtVarnum grows the factory's Varnum by num variables. Equivalent to
// f.SetVarnum(f.Varnum() + num); grounded on the teacher's varnum.go
// ExtVarnum.
func (f *Factory) ExtVarnum(num int) error {
	if num < 0 {
		return newConfigurationError("cannot extend Varnum by a negative amount %d", num)
	}
	return f.SetVarnum(f.store.varnum() + num)
}

// Reset discards every node, handle, pairing, and cache this Factory owns
// and rebuilds an empty node table with the same configuration. Every Node
// handle minted before Reset becomes stale and returns UseAfterFreeError on
// its next use.
func (f *Factory) Reset() error {
	store, err := backends[f.store.name()](f.cfg)
	if err != nil {
		return errors.Wrap(err, "rudd: reset")
	}
	f.store = store
	f.caches = newCaches(f.cfg.cachesize)
	f.pairings = nil
	f.epoch++
	f.error = nil
	return nil
}

// checkCacheGrowth grows the operator caches in proportion to the node table
// whenever Cacheratio was configured, mirroring the teacher's
// cacheresize-on-noderesize behaviour in cache.go.
func (f *Factory) checkCacheGrowth() {
	if f.cfg.cacheratio <= 0 {
		return
	}
	target := f.store.size() / f.cfg.cacheratio
	if target > len(f.caches.apply.entries) {
		f.caches.resize(target)
	}
}
