// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import "fmt"

// The operator caches are direct-mapped, unconditional-overwrite caches: a
// hash collision simply evicts whatever was there before. Correctness never
// depends on a hit; a cache is a throughput optimization only. Grounded on
// the teacher's cache.go (data4n/data4ncache, data3n/data3ncache, and the
// typed wrappers applycache/itecache/quantcache/appexcache/replacecache).

// CacheStats reports the hit ratio of a single operator cache, part of the
// Stats snapshot returned by Factory.Stats.
type CacheStats struct {
	Name string
	Size int
	Hits int64
	Miss int64
}

func (c CacheStats) String() string {
	total := c.Hits + c.Miss
	if total == 0 {
		return fmt.Sprintf("%s: unused (size %d)", c.Name, c.Size)
	}
	return fmt.Sprintf("%s: %d/%d (%d%%) size %d", c.Name, c.Hits, total, c.Hits*100/total, c.Size)
}

// binOpEntry caches the result of Apply(op, a, b).
type binOpEntry struct {
	a, b, op int
	res      int
	valid    bool
}

type binOpCache struct {
	name    string
	entries []binOpEntry
	hits    int64
	miss    int64
}

func newBinOpCache(name string, size int) *binOpCache {
	return &binOpCache{name: name, entries: make([]binOpEntry, primeGte(size))}
}

func (c *binOpCache) index(a, b, op int) int {
	return _TRIPLE(a, b, op, len(c.entries))
}

func (c *binOpCache) get(a, b, op int) (int, bool) {
	e := &c.entries[c.index(a, b, op)]
	if e.valid && e.a == a && e.b == b && e.op == op {
		c.hits++
		return e.res, true
	}
	c.miss++
	return 0, false
}

func (c *binOpCache) set(a, b, op, res int) {
	c.entries[c.index(a, b, op)] = binOpEntry{a: a, b: b, op: op, res: res, valid: true}
}

func (c *binOpCache) clear() {
	for i := range c.entries {
		c.entries[i].valid = false
	}
}

func (c *binOpCache) resize(size int) {
	c.entries = make([]binOpEntry, primeGte(size))
	c.hits, c.miss = 0, 0
}

func (c *binOpCache) stats() CacheStats {
	return CacheStats{Name: c.name, Size: len(c.entries), Hits: c.hits, Miss: c.miss}
}

// iteEntry caches the result of Ite(f, g, h); these use a triple key plus an
// extra slot (the teacher's data4n) because three operands don't fold into a
// single _TRIPLE call without losing information.
type iteEntry struct {
	f, g, h int
	res     int
	valid   bool
}

type iteCache struct {
	entries []iteEntry
	hits    int64
	miss    int64
}

func newIteCache(size int) *iteCache {
	return &iteCache{entries: make([]iteEntry, primeGte(size))}
}

func (c *iteCache) index(f, g, h int) int {
	return _TRIPLE(f, g, h, len(c.entries))
}

func (c *iteCache) get(f, g, h int) (int, bool) {
	e := &c.entries[c.index(f, g, h)]
	if e.valid && e.f == f && e.g == g && e.h == h {
		c.hits++
		return e.res, true
	}
	c.miss++
	return 0, false
}

func (c *iteCache) set(f, g, h, res int) {
	c.entries[c.index(f, g, h)] = iteEntry{f: f, g: g, h: h, res: res, valid: true}
}

func (c *iteCache) clear() {
	for i := range c.entries {
		c.entries[i].valid = false
	}
}

func (c *iteCache) resize(size int) {
	c.entries = make([]iteEntry, primeGte(size))
	c.hits, c.miss = 0, 0
}

func (c *iteCache) stats() CacheStats {
	return CacheStats{Name: "ite", Size: len(c.entries), Hits: c.hits, Miss: c.miss}
}

// quantEntry caches the result of Exist/Forall/Unique(varset, n); varsetID
// identifies the quantified variable set (its cache id, set up by
// quantset2cache in the teacher, here the node index of the varset built by
// Makeset).
type quantEntry struct {
	n, varsetID, op int
	res             int
	valid           bool
}

type quantCache struct {
	entries []quantEntry
	hits    int64
	miss    int64
}

func newQuantCache(size int) *quantCache {
	return &quantCache{entries: make([]quantEntry, primeGte(size))}
}

func (c *quantCache) index(n, varsetID, op int) int {
	return _TRIPLE(n, varsetID, op, len(c.entries))
}

func (c *quantCache) get(n, varsetID, op int) (int, bool) {
	e := &c.entries[c.index(n, varsetID, op)]
	if e.valid && e.n == n && e.varsetID == varsetID && e.op == op {
		c.hits++
		return e.res, true
	}
	c.miss++
	return 0, false
}

func (c *quantCache) set(n, varsetID, op, res int) {
	c.entries[c.index(n, varsetID, op)] = quantEntry{n: n, varsetID: varsetID, op: op, res: res, valid: true}
}

func (c *quantCache) clear() {
	for i := range c.entries {
		c.entries[i].valid = false
	}
}

func (c *quantCache) resize(size int) {
	c.entries = make([]quantEntry, primeGte(size))
	c.hits, c.miss = 0, 0
}

func (c *quantCache) stats(name string) CacheStats {
	return CacheStats{Name: name, Size: len(c.entries), Hits: c.hits, Miss: c.miss}
}

// appexEntry caches AppEx(op, a, b, varsetID), the fused apply-then-exist
// relational product, grounded on the teacher's appexcache.
type appexEntry struct {
	a, b, op, varsetID int
	res                int
	valid              bool
}

type appexCache struct {
	entries []appexEntry
	hits    int64
	miss    int64
}

func newAppexCache(size int) *appexCache {
	return &appexCache{entries: make([]appexEntry, primeGte(size))}
}

func (c *appexCache) index(a, b, op, varsetID int) int {
	return _TRIPLE(_TRIPLE(a, b, op, len(c.entries)), varsetID, 0, len(c.entries))
}

func (c *appexCache) get(a, b, op, varsetID int) (int, bool) {
	e := &c.entries[c.index(a, b, op, varsetID)]
	if e.valid && e.a == a && e.b == b && e.op == op && e.varsetID == varsetID {
		c.hits++
		return e.res, true
	}
	c.miss++
	return 0, false
}

func (c *appexCache) set(a, b, op, varsetID, res int) {
	c.entries[c.index(a, b, op, varsetID)] = appexEntry{a: a, b: b, op: op, varsetID: varsetID, res: res, valid: true}
}

func (c *appexCache) clear() {
	for i := range c.entries {
		c.entries[i].valid = false
	}
}

func (c *appexCache) resize(size int) {
	c.entries = make([]appexEntry, primeGte(size))
	c.hits, c.miss = 0, 0
}

func (c *appexCache) stats() CacheStats {
	return CacheStats{Name: "appex", Size: len(c.entries), Hits: c.hits, Miss: c.miss}
}

// replaceEntry caches Replace(n, pairingID), keyed on the node and the
// identity of the (deduplicated, frozen) Pairing applied to it.
type replaceEntry struct {
	n, pairingID int
	res          int
	valid        bool
}

type replaceCache struct {
	entries []replaceEntry
	hits    int64
	miss    int64
}

func newReplaceCache(size int) *replaceCache {
	return &replaceCache{entries: make([]replaceEntry, primeGte(size))}
}

func (c *replaceCache) index(n, pairingID int) int {
	return _PAIR(n, pairingID, len(c.entries))
}

func (c *replaceCache) get(n, pairingID int) (int, bool) {
	e := &c.entries[c.index(n, pairingID)]
	if e.valid && e.n == n && e.pairingID == pairingID {
		c.hits++
		return e.res, true
	}
	c.miss++
	return 0, false
}

func (c *replaceCache) set(n, pairingID, res int) {
	c.entries[c.index(n, pairingID)] = replaceEntry{n: n, pairingID: pairingID, res: res, valid: true}
}

func (c *replaceCache) clear() {
	for i := range c.entries {
		c.entries[i].valid = false
	}
}

func (c *replaceCache) resize(size int) {
	c.entries = make([]replaceEntry, primeGte(size))
	c.hits, c.miss = 0, 0
}

func (c *replaceCache) stats() CacheStats {
	return CacheStats{Name: "replace", Size: len(c.entries), Hits: c.hits, Miss: c.miss}
}

// composeEntry caches Compose(a, v, g): substituting g for the variable at
// level v in a, the ITE-on-cofactors operation spec.md §4.3 lists alongside
// apply/ite/quant/replace as needing its own cache.
type composeEntry struct {
	a, v, g int
	res     int
	valid   bool
}

type composeCache struct {
	entries []composeEntry
	hits    int64
	miss    int64
}

func newComposeCache(size int) *composeCache {
	return &composeCache{entries: make([]composeEntry, primeGte(size))}
}

func (c *composeCache) index(a, v, g int) int {
	return _TRIPLE(a, v, g, len(c.entries))
}

func (c *composeCache) get(a, v, g int) (int, bool) {
	e := &c.entries[c.index(a, v, g)]
	if e.valid && e.a == a && e.v == v && e.g == g {
		c.hits++
		return e.res, true
	}
	c.miss++
	return 0, false
}

func (c *composeCache) set(a, v, g, res int) {
	c.entries[c.index(a, v, g)] = composeEntry{a: a, v: v, g: g, res: res, valid: true}
}

func (c *composeCache) clear() {
	for i := range c.entries {
		c.entries[i].valid = false
	}
}

func (c *composeCache) resize(size int) {
	c.entries = make([]composeEntry, primeGte(size))
	c.hits, c.miss = 0, 0
}

func (c *composeCache) stats() CacheStats {
	return CacheStats{Name: "compose", Size: len(c.entries), Hits: c.hits, Miss: c.miss}
}

// caches bundles every operator cache a Factory owns, created together at
// Init time and resized together whenever the node table grows (if
// Cacheratio was set).
// quant is shared by Exist/Forall/Unique: its key already includes the
// quantifier's operator code, so one table serves all three instead of the
// teacher needing a separate cache per quantifier kind.
type caches struct {
	apply   *binOpCache
	ite     *iteCache
	quant   *quantCache
	appex   *appexCache
	replace *replaceCache
	compose *composeCache
}

func newCaches(size int) *caches {
	return &caches{
		apply:   newBinOpCache("apply", size),
		ite:     newIteCache(size),
		quant:   newQuantCache(size),
		appex:   newAppexCache(size),
		replace: newReplaceCache(size),
		compose: newComposeCache(size),
	}
}

func (c *caches) clear() {
	c.apply.clear()
	c.ite.clear()
	c.quant.clear()
	c.appex.clear()
	c.replace.clear()
	c.compose.clear()
}

func (c *caches) resize(size int) {
	c.apply.resize(size)
	c.ite.resize(size)
	c.quant.resize(size)
	c.appex.resize(size)
	c.replace.resize(size)
	c.compose.resize(size)
}

func (c *caches) stats() []CacheStats {
	return []CacheStats{
		c.apply.stats(),
		c.ite.stats(),
		c.quant.stats("quant"),
		c.appex.stats(),
		c.replace.stats(),
		c.compose.stats(),
	}
}
