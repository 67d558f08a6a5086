// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import "math/big"

// result wraps an internal node index as a new externally-referenced Node
// handle (bumping its refcount so a GC run can't collect it out from under
// the caller), or records a sticky Factory error and returns an invalid
// handle if idx could not be computed.
func (f *Factory) result(idx int, err error) Node {
	f.refstack = f.refstack[:0]
	if err != nil {
		return f.seterror(err)
	}
	f.store.addref(idx)
	f.checkCacheGrowth()
	return f.node(idx)
}

func binary(op Operator, n, m Node) Node {
	f, a, b, err := sameFactory(n, m)
	if err != nil {
		return Node{}
	}
	idx, err := f.apply(op, a, b)
	return f.result(idx, err)
}

// And, Or, Xor, Nand, Nor, Imp, Biimp, Diff, Less, InvImp are the ten stable
// binary connectives (spec.md §6/operator.go); none of them consume their
// operands.
func (n Node) And(m Node) Node    { return binary(OPand, n, m) }
func (n Node) Or(m Node) Node     { return binary(OPor, n, m) }
func (n Node) Xor(m Node) Node    { return binary(OPxor, n, m) }
func (n Node) Nand(m Node) Node   { return binary(OPnand, n, m) }
func (n Node) Nor(m Node) Node    { return binary(OPnor, n, m) }
func (n Node) Imp(m Node) Node    { return binary(OPimp, n, m) }
func (n Node) Biimp(m Node) Node  { return binary(OPbiimp, n, m) }
func (n Node) Diff(m Node) Node   { return binary(OPdiff, n, m) }
func (n Node) Less(m Node) Node   { return binary(OPless, n, m) }
func (n Node) InvImp(m Node) Node { return binary(OPinvimp, n, m) }

// Not returns the negation of n.
func (n Node) Not() Node {
	f, a, err := n.check()
	if err != nil {
		return Node{}
	}
	idx, err := f.not(a)
	return f.result(idx, err)
}

func binaryWith(op Operator, n *Node, m *Node) Node {
	res := binary(op, *n, *m)
	n.Free()
	m.Free()
	return res
}

// AndWith, OrWith, XorWith compute the connective and then Free both
// operands, the consuming family the spec calls out alongside the plain
// (non-consuming) operators, useful for folding a long conjunction/
// disjunction without leaking an intermediate handle per step.
func (n *Node) AndWith(m *Node) Node { return binaryWith(OPand, n, m) }
func (n *Node) OrWith(m *Node) Node  { return binaryWith(OPor, n, m) }
func (n *Node) XorWith(m *Node) Node { return binaryWith(OPxor, n, m) }

// NotWith negates n and frees the receiver.
func (n *Node) NotWith() Node {
	res := n.Not()
	n.Free()
	return res
}

// Ite computes the standard if-then-else: n ? g : h.
func (n Node) Ite(g, h Node) Node {
	f, a, err := n.check()
	if err != nil {
		return Node{}
	}
	_, b, err := sameFactoryPair(f, g)
	if err != nil {
		return Node{}
	}
	_, c, err := sameFactoryPair(f, h)
	if err != nil {
		return Node{}
	}
	idx, err := f.ite(a, b, c)
	return f.result(idx, err)
}

func sameFactoryPair(f *Factory, n Node) (*Factory, int, error) {
	g, idx, err := n.check()
	if err != nil {
		f.seterror(err)
		return nil, 0, err
	}
	if f != g {
		err := newCrossFactoryError("operands belong to different Factory instances")
		f.seterror(err)
		return nil, 0, err
	}
	return f, idx, nil
}

// Equal reports whether n and m denote the same node (BDDs are canonical,
// so this is index equality, not a structural walk).
func (n Node) Equal(m Node) bool {
	f, a, err := n.check()
	if err != nil {
		return false
	}
	g, b, err := m.check()
	if err != nil {
		return false
	}
	return f == g && a == b
}

// Makeset builds the conjunction of the positive literals of levels, the
// canonical "variable set" representation used by Exist/Forall/Unique/AppEx/
// Restrict. levels must be strictly increasing; Errored()/Error() report a
// ConfigurationError otherwise.
func (f *Factory) Makeset(levels []int) Node {
	lv := make([]int32, len(levels))
	pos := make([]bool, len(levels))
	for i, l := range levels {
		lv[i] = int32(l)
		pos[i] = true
	}
	idx, err := f.andLiterals(lv, pos)
	return f.result(idx, err)
}

func quantify(qop Operator, n, varset Node) Node {
	f, a, err := n.check()
	if err != nil {
		return Node{}
	}
	_, v, err := sameFactoryPair(f, varset)
	if err != nil {
		return Node{}
	}
	idx, err := f.quant(qop, a, v)
	return f.result(idx, err)
}

// Exist, Forall, Unique quantify n over the variables named by varset (a
// Node built by Makeset).
func (n Node) Exist(varset Node) Node  { return quantify(OPor, n, varset) }
func (n Node) Forall(varset Node) Node { return quantify(OPand, n, varset) }
func (n Node) Unique(varset Node) Node { return quantify(OPxor, n, varset) }

// AppEx fuses Apply(op, n, m) with existential quantification over varset
// into a single traversal, the relational-product primitive.
func (n Node) AppEx(op Operator, m Node, varset Node) Node {
	f, a, b, err := sameFactory(n, m)
	if err != nil {
		return Node{}
	}
	_, v, err := sameFactoryPair(f, varset)
	if err != nil {
		return Node{}
	}
	idx, err := f.appquant(op, a, b, OPor, v)
	return f.result(idx, err)
}

// RelProd is AppEx(And, m, varset): the classic relational product used to
// compose a transition relation with a state set.
func (n Node) RelProd(m Node, varset Node) Node {
	return n.AppEx(OPand, m, varset)
}

// Replace substitutes variables in n according to p.
func (n Node) Replace(p *Pairing) Node {
	f, a, err := n.check()
	if err != nil {
		return Node{}
	}
	if p.f != f {
		f.seterror(newCrossFactoryError("Pairing belongs to a different Factory"))
		return Node{}
	}
	frozen := p
	if !p.frozen {
		frozen = p.FreezeAndInstall()
	}
	idx, err := f.replaceWithCompose(a, frozen)
	return f.result(idx, err)
}

// Compose substitutes the single variable at level v in n with g, computed
// as Ite(g, cofactor(n,v,1), cofactor(n,v,0)) per spec.md §4.3. It is the
// general substitution Pairing-based Replace falls back to for any entry
// mapping a variable to an arbitrary BDD rather than another variable.
func (n Node) Compose(v int, g Node) Node {
	f, a, err := n.check()
	if err != nil {
		return Node{}
	}
	_, b, err := sameFactoryPair(f, g)
	if err != nil {
		return Node{}
	}
	idx, err := f.compose(a, int32(v), b)
	return f.result(idx, err)
}

// Restrict sets every variable named by varset to true and removes it from
// n, the non-quantifying specialization of compose.
func (n Node) Restrict(varset Node) Node {
	f, a, err := n.check()
	if err != nil {
		return Node{}
	}
	_, v, err := sameFactoryPair(f, varset)
	if err != nil {
		return Node{}
	}
	idx, err := f.restrict(a, v)
	return f.result(idx, err)
}

// SatOne returns one satisfying assignment of n as a cube (a conjunction of
// literals), or False if n is unsatisfiable.
func (n Node) SatOne() Node {
	f, a, err := n.check()
	if err != nil {
		return Node{}
	}
	idx, err := f.satOne(a)
	return f.result(idx, err)
}

// SatCount returns the number of satisfying assignments of n over all of
// its Factory's variables.
func (n Node) SatCount() *big.Int {
	f, a, err := n.check()
	if err != nil {
		return big.NewInt(0)
	}
	return f.satcount(a)
}

// PathCount returns the number of paths from n to the True terminal,
// without the level-gap weighting SatCount applies.
func (n Node) PathCount() *big.Int {
	f, a, err := n.check()
	if err != nil {
		return big.NewInt(0)
	}
	return f.pathcount(a)
}

// AllSat calls yield once per satisfying assignment of n, encoded as a
// []int8 of length Factory.Varnum using -1 for don't-care, 0 for false, 1
// for true.
func (n Node) AllSat(yield func([]int8)) {
	f, a, err := n.check()
	if err != nil {
		return
	}
	f.allsat(a, yield)
}

// AllNodes calls visit once for every live non-terminal node reachable from
// n, in implementation-defined order.
func (n Node) AllNodes(visit func(level int, low, high int)) {
	f, a, err := n.check()
	if err != nil {
		return
	}
	f.allnodesRaw([]int{a}, func(_ int, level int32, low, high int) {
		visit(int(level), low, high)
	})
}

// AllNodes calls visit once for every live non-terminal node currently in
// the factory's table, regardless of whether it is reachable from any Node
// handle still held by the caller. Use Node.AllNodes instead to restrict the
// walk to the nodes reachable from one BDD.
func (f *Factory) AllNodes(visit func(level int, low, high int)) {
	f.store.allnodes(func(_ int, level int32, low, high int) bool {
		visit(int(level), low, high)
		return true
	})
}

// AndAll is the left fold of And over nodes, with the short-circuit that
// any False operand makes the whole conjunction False.
func AndAll(f *Factory, nodes ...Node) Node {
	res := f.True()
	for _, n := range nodes {
		res = res.And(n)
		if res.IsFalse() {
			return res
		}
	}
	return res
}

// OrAll is the left fold of Or over nodes.
func OrAll(f *Factory, nodes ...Node) Node {
	res := f.False()
	for _, n := range nodes {
		res = res.Or(n)
		if res.IsTrue() {
			return res
		}
	}
	return res
}
