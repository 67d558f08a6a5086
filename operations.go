// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import "sort"

// The recursive core of the package: every operation here works on raw node
// indices against a Factory's nodeStore, hash-consing results through
// makenode and memoizing through the operator caches. Grounded on the
// teacher's operations.go/hoperations.go (apply/ite/quant/appquant/replace/
// satcount/allsat/allnodes), generalized to run against either nodeStore
// backend through the interface in store.go instead of two near-duplicate
// files selected by build tag.

func (f *Factory) not(a int) (int, error) {
	return f.apply(OPxor, a, 1)
}

// apply computes the binary operator op between the BDDs rooted at a and b,
// using the absorbing/identity shortcuts from the teacher's apply() before
// falling back to Shannon expansion on the top variable.
func (f *Factory) apply(op Operator, a, b int) (int, error) {
	if a < 2 && b < 2 {
		return opres[op][a][b], nil
	}
	switch op {
	case OPand:
		if a == b {
			return a, nil
		}
		if a == 0 || b == 0 {
			return 0, nil
		}
		if a == 1 {
			return b, nil
		}
		if b == 1 {
			return a, nil
		}
	case OPor:
		if a == b {
			return a, nil
		}
		if a == 1 || b == 1 {
			return 1, nil
		}
		if a == 0 {
			return b, nil
		}
		if b == 0 {
			return a, nil
		}
	case OPxor:
		if a == b {
			return 0, nil
		}
		if a == 0 {
			return b, nil
		}
		if b == 0 {
			return a, nil
		}
	}

	if res, ok := f.caches.apply.get(a, b, int(op)); ok {
		return res, nil
	}

	la, lb := f.levelOf(a), f.levelOf(b)
	lev := la
	var loA, hiA, loB, hiB int
	switch {
	case la == lb:
		loA, hiA = f.store.low(a), f.store.high(a)
		loB, hiB = f.store.low(b), f.store.high(b)
	case la < lb:
		loA, hiA = f.store.low(a), f.store.high(a)
		loB, hiB = b, b
	default:
		lev = lb
		loA, hiA = a, a
		loB, hiB = f.store.low(b), f.store.high(b)
	}

	lo, err := f.apply(op, loA, loB)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	hi, err := f.apply(op, hiA, hiB)
	f.popref(1)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	f.pushref(hi)
	res, err := f.store.makenode(lev, lo, hi, f.refstack)
	f.popref(2)
	if err != nil {
		return 0, err
	}
	f.caches.apply.set(a, b, int(op), res)
	return res, nil
}

// levelOf returns the level of a node, treating the two terminals as being
// at depth Varnum (below every real variable), matching the convention set
// up when the terminals are created in each nodeStore constructor.
func (f *Factory) levelOf(n int) int32 {
	if n < 2 {
		return int32(f.store.varnum())
	}
	return f.store.level(n)
}

// ite computes if-then-else(fi, gi, hi), the ternary Shannon expansion that
// every other binary connective can be derived from. Grounded on the
// teacher's Ite/ite/iteLow/iteHigh.
func (f *Factory) ite(fi, gi, hi int) (int, error) {
	switch {
	case fi == 1:
		return gi, nil
	case fi == 0:
		return hi, nil
	case gi == hi:
		return gi, nil
	case gi == 1 && hi == 0:
		return fi, nil
	}

	if res, ok := f.caches.ite.get(fi, gi, hi); ok {
		return res, nil
	}

	lev := min3(f.levelOf(fi), f.levelOf(gi), f.levelOf(hi))

	cof := func(n int) (int, int) {
		if f.levelOf(n) == lev {
			return f.store.low(n), f.store.high(n)
		}
		return n, n
	}
	fLo, fHi := cof(fi)
	gLo, gHi := cof(gi)
	hLo, hHi := cof(hi)

	lo, err := f.ite(fLo, gLo, hLo)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	hi2, err := f.ite(fHi, gHi, hHi)
	f.popref(1)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	f.pushref(hi2)
	res, err := f.store.makenode(lev, lo, hi2, f.refstack)
	f.popref(2)
	if err != nil {
		return 0, err
	}
	f.caches.ite.set(fi, gi, hi, res)
	return res, nil
}

func min3(a, b, c int32) int32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// setLevels builds a membership array over variable levels from a varset
// node (a conjunction of positive literals produced by Makeset), so
// quant/appquant can test "is this level quantified" in O(1) during the
// recursion. Grounded on the teacher's quantset2cache.
func (f *Factory) setLevels(varset int) []bool {
	levels := make([]bool, f.store.varnum())
	for varset > 1 {
		levels[f.store.level(varset)] = true
		varset = f.store.high(varset)
	}
	return levels
}

// quant existentially/universally/uniquely quantifies a over the variables
// named by varset, combining cofactors with qop (OPor for Exist, OPand for
// Forall, OPxor for Unique).
func (f *Factory) quant(qop Operator, a, varset int) (int, error) {
	levels := f.setLevels(varset)
	return f.quantRec(qop, a, varset, levels)
}

func (f *Factory) quantRec(qop Operator, a, varsetID int, levels []bool) (int, error) {
	if a < 2 {
		return a, nil
	}
	if varsetID == 1 {
		return a, nil
	}
	if res, ok := f.caches.quant.get(a, varsetID, int(qop)); ok {
		return res, nil
	}

	lev := f.store.level(a)
	lo, err := f.quantRec(qop, f.store.low(a), varsetID, levels)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	hi, err := f.quantRec(qop, f.store.high(a), varsetID, levels)
	f.popref(1)
	if err != nil {
		return 0, err
	}

	var res int
	f.pushref(lo)
	f.pushref(hi)
	if levels[lev] {
		res, err = f.apply(qop, lo, hi)
	} else {
		res, err = f.store.makenode(lev, lo, hi, f.refstack)
	}
	f.popref(2)
	if err != nil {
		return 0, err
	}
	f.caches.quant.set(a, varsetID, int(qop), res)
	return res, nil
}

// appquant fuses Apply(conj, a, b) with a quantification over varset in a
// single recursive pass (the "relational product"), grounded on the
// teacher's AppEx/appquant.
func (f *Factory) appquant(conj Operator, a, b int, qop Operator, varsetID int) (int, error) {
	levels := f.setLevels(varsetID)
	return f.appquantRec(conj, a, b, qop, varsetID, levels)
}

func (f *Factory) appquantRec(conj Operator, a, b int, qop Operator, varsetID int, levels []bool) (int, error) {
	switch conj {
	case OPand:
		if a == 0 || b == 0 {
			return 0, nil
		}
		if a == b {
			return f.quantRec(qop, a, varsetID, levels)
		}
		if a == 1 {
			return f.quantRec(qop, b, varsetID, levels)
		}
		if b == 1 {
			return f.quantRec(qop, a, varsetID, levels)
		}
	case OPor:
		if a == 1 || b == 1 {
			return 1, nil
		}
		if a == b {
			return f.quantRec(qop, a, varsetID, levels)
		}
		if a == 0 {
			return f.quantRec(qop, b, varsetID, levels)
		}
		if b == 0 {
			return f.quantRec(qop, a, varsetID, levels)
		}
	}

	if a < 2 && b < 2 {
		return opres[conj][a][b], nil
	}

	if res, ok := f.caches.appex.get(a, b, int(conj), varsetID); ok {
		return res, nil
	}

	la, lb := f.levelOf(a), f.levelOf(b)
	var lev int32
	var loA, hiA, loB, hiB int
	switch {
	case la == lb:
		lev = la
		loA, hiA = f.store.low(a), f.store.high(a)
		loB, hiB = f.store.low(b), f.store.high(b)
	case la < lb:
		lev = la
		loA, hiA = f.store.low(a), f.store.high(a)
		loB, hiB = b, b
	default:
		lev = lb
		loA, hiA = a, a
		loB, hiB = f.store.low(b), f.store.high(b)
	}

	lo, err := f.appquantRec(conj, loA, loB, qop, varsetID, levels)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	hi, err := f.appquantRec(conj, hiA, hiB, qop, varsetID, levels)
	f.popref(1)
	if err != nil {
		return 0, err
	}

	var res int
	f.pushref(lo)
	f.pushref(hi)
	if int(lev) < len(levels) && levels[lev] {
		res, err = f.apply(qop, lo, hi)
	} else {
		res, err = f.store.makenode(lev, lo, hi, f.refstack)
	}
	f.popref(2)
	if err != nil {
		return 0, err
	}
	f.caches.appex.set(a, b, int(conj), varsetID, res)
	return res, nil
}

// replace substitutes variables in a according to p, rebuilding nodes level
// by level so the result still respects the factory's variable order
// (correctify in the teacher's replace.go).
func (f *Factory) replace(a int, p *Pairing) (int, error) {
	if a < 2 {
		return a, nil
	}
	if res, ok := f.caches.replace.get(a, p.id); ok {
		return res, nil
	}

	lo, err := f.replace(f.store.low(a), p)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	hi, err := f.replace(f.store.high(a), p)
	f.popref(1)
	if err != nil {
		return 0, err
	}

	f.pushref(lo)
	f.pushref(hi)
	newLevel := p.image32(f.store.level(a))
	res, err := f.correctify(newLevel, lo, hi)
	f.popref(2)
	if err != nil {
		return 0, err
	}
	f.caches.replace.set(a, p.id, res)
	return res, nil
}

// correctify rebuilds a node at newLevel even when one of its children
// turns out to have a level at or above newLevel after substitution (which
// can happen when a Pairing maps variables out of order); it pushes the
// conflicting child back down with a fresh pair of nodes for every level in
// between, exactly as the teacher's replace.go does to keep the table a
// valid reduced ordered diagram.
func (f *Factory) correctify(newLevel int32, lo, hi int) (int, error) {
	if newLevel < f.levelOf(lo) && newLevel < f.levelOf(hi) {
		return f.store.makenode(newLevel, lo, hi, f.refstack)
	}
	var lo2, hi2 int
	var err error
	if newLevel >= f.levelOf(lo) {
		lo2, err = f.correctify(newLevel, f.store.low(lo), f.store.high(lo))
	} else {
		lo2 = lo
	}
	if err != nil {
		return 0, err
	}
	f.pushref(lo2)
	if newLevel >= f.levelOf(hi) {
		hi2, err = f.correctify(newLevel, f.store.low(hi), f.store.high(hi))
	} else {
		hi2 = hi
	}
	f.popref(1)
	if err != nil {
		return 0, err
	}
	f.pushref(lo2)
	f.pushref(hi2)
	res, err := f.store.makenode(newLevel, lo2, hi2, f.refstack)
	f.popref(2)
	return res, err
}

// replaceWithCompose runs the plain rename pass (replace/correctify) and
// then, for every variable p.SetBDD mapped to an arbitrary BDD, substitutes
// it via compose, processing levels from deepest to shallowest. Grounded on
// spec.md §4.3/§4.5: a Pairing entry is "either another variable or an
// arbitrary BDD", and the latter is replace's documented fallback to
// compose.
func (f *Factory) replaceWithCompose(a int, p *Pairing) (int, error) {
	res, err := f.replace(a, p)
	if err != nil {
		return 0, err
	}
	if len(p.bddEntries) == 0 {
		return res, nil
	}
	entries := append([]bddEntry(nil), p.bddEntries...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].old > entries[j].old })
	for _, e := range entries {
		f.pushref(res)
		res, err = f.compose(res, e.old, e.bdd)
		f.popref(1)
		if err != nil {
			return 0, err
		}
	}
	return res, nil
}

// restrict sets every variable in varset to true (descending into the high
// branch of each node that tests one), a specialization of compose; it backs
// Node.Restrict.
func (f *Factory) restrict(a, varsetID int) (int, error) {
	levels := f.setLevels(varsetID)
	return f.restrictRec(a, levels)
}

func (f *Factory) restrictRec(a int, levels []bool) (int, error) {
	if a < 2 {
		return a, nil
	}
	lev := f.store.level(a)
	if int(lev) < len(levels) && levels[lev] {
		// The semantics of restrict (unlike exist) pick a side rather than
		// combine both; we follow the convention that a variable in the
		// varset is restricted to true, i.e. we descend into high.
		return f.restrictRec(f.store.high(a), levels)
	}
	lo, err := f.restrictRec(f.store.low(a), levels)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	hi, err := f.restrictRec(f.store.high(a), levels)
	f.popref(1)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	f.pushref(hi)
	res, err := f.store.makenode(lev, lo, hi, f.refstack)
	f.popref(2)
	return res, err
}

// cofactor returns the BDD for a with the single variable at level v
// restricted to branch (0 for low, 1 for high), leaving every other variable
// untouched. Used by compose to build the two halves of its ITE.
func (f *Factory) cofactor(a int, v int32, branch int) (int, error) {
	if a < 2 {
		return a, nil
	}
	lev := f.store.level(a)
	if lev > v {
		return a, nil
	}
	if lev == v {
		if branch == 0 {
			return f.store.low(a), nil
		}
		return f.store.high(a), nil
	}
	lo, err := f.cofactor(f.store.low(a), v, branch)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	hi, err := f.cofactor(f.store.high(a), v, branch)
	f.popref(1)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	f.pushref(hi)
	res, err := f.store.makenode(lev, lo, hi, f.refstack)
	f.popref(2)
	return res, err
}

// compose substitutes the variable at level v in a with the BDD rooted at g,
// computed as Ite(g, cofactor(a,v,1), cofactor(a,v,0)), the ITE-on-cofactors
// construction spec.md §4.3 documents for compose and for replace's fallback
// when a Pairing entry maps a variable to an arbitrary BDD instead of
// another variable (see Pairing.SetBDD).
func (f *Factory) compose(a int, v int32, g int) (int, error) {
	if res, ok := f.caches.compose.get(a, int(v), g); ok {
		return res, nil
	}
	hi, err := f.cofactor(a, v, 1)
	if err != nil {
		return 0, err
	}
	f.pushref(hi)
	lo, err := f.cofactor(a, v, 0)
	f.popref(1)
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	f.pushref(hi)
	res, err := f.ite(g, hi, lo)
	f.popref(2)
	if err != nil {
		return 0, err
	}
	f.caches.compose.set(a, int(v), g, res)
	return res, nil
}

// satOne returns one satisfying assignment of a as a BDD (a cube), following
// the low branch whenever it is not the false terminal, as in the teacher's
// allsat traversal but stopping at the first path found.
func (f *Factory) satOne(a int) (int, error) {
	if a < 2 {
		return a, nil
	}
	if f.store.low(a) == 0 {
		hi, err := f.satOne(f.store.high(a))
		if err != nil {
			return 0, err
		}
		f.pushref(hi)
		res, err := f.store.makenode(f.store.level(a), 0, hi, f.refstack)
		f.popref(1)
		return res, err
	}
	lo, err := f.satOne(f.store.low(a))
	if err != nil {
		return 0, err
	}
	f.pushref(lo)
	res, err := f.store.makenode(f.store.level(a), lo, 0, f.refstack)
	f.popref(1)
	return res, err
}

// allsat calls yield once per satisfying assignment of a, encoded as a
// []int8 of length Varnum using -1/0/1 for don't-care/false/true, matching
// the teacher's Allsat callback shape.
func (f *Factory) allsat(a int, yield func([]int8)) {
	assignment := make([]int8, f.store.varnum())
	for i := range assignment {
		assignment[i] = -1
	}
	f.allsatRec(a, assignment, yield)
}

func (f *Factory) allsatRec(a int, assignment []int8, yield func([]int8)) {
	if a == 0 {
		return
	}
	if a == 1 {
		cp := make([]int8, len(assignment))
		copy(cp, assignment)
		yield(cp)
		return
	}
	lev := f.store.level(a)
	if f.store.low(a) != 0 {
		assignment[lev] = 0
		f.allsatRec(f.store.low(a), assignment, yield)
	}
	if f.store.high(a) != 0 {
		assignment[lev] = 1
		f.allsatRec(f.store.high(a), assignment, yield)
	}
	assignment[lev] = -1
}

// andLiterals builds the conjunction of the given literals (positive level
// if true, negative if false) as a single cube, used by Makeset. Unlike a
// fold over apply, it
// requires levels to be strictly increasing and builds the chain bottom-up
// by direct makenode calls in one pass, with no recursion and without
// touching the apply cache, matching spec.md §4.3's andLiterals contract.
func (f *Factory) andLiterals(levels []int32, positive []bool) (int, error) {
	for i := 1; i < len(levels); i++ {
		if levels[i-1] >= levels[i] {
			return 0, newConfigurationError("andLiterals requires strictly increasing levels, got %d at or after %d", levels[i], levels[i-1])
		}
	}
	res := 1
	pushed := 0
	for i := len(levels) - 1; i >= 0; i-- {
		var lo, hi int
		if positive[i] {
			lo, hi = 0, res
		} else {
			lo, hi = res, 0
		}
		var err error
		res, err = f.store.makenode(levels[i], lo, hi, f.refstack)
		if err != nil {
			f.popref(pushed)
			return 0, err
		}
		f.pushref(res)
		pushed++
	}
	f.popref(pushed)
	return res, nil
}

// allnodesRaw walks every live non-terminal node reachable from roots,
// calling visit once per node with its (id, level, low, high), grounded on
// the teacher's allnodesfrom/allnodes.
func (f *Factory) allnodesRaw(roots []int, visit func(id int, level int32, low, high int)) {
	seen := make(map[int]bool)
	var walk func(int)
	walk = func(n int) {
		if n < 2 || seen[n] {
			return
		}
		seen[n] = true
		visit(n, f.store.level(n), f.store.low(n), f.store.high(n))
		walk(f.store.low(n))
		walk(f.store.high(n))
	}
	for _, r := range roots {
		walk(r)
	}
}
