// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

// Node is a handle to a BDD rooted at some node of its Factory's table. It
// replaces the teacher's bare `type Node *int` (bdd.go) plus Go-finalizer
// based cleanup with explicit ownership (spec.md §5): Clone increments the
// external reference count and returns a new handle sharing the same
// factory/index/epoch; Free decrements it. A Node whose epoch no longer
// matches its Factory's current epoch (because Reset was called) is stale;
// operating on it returns a UseAfterFreeError instead of touching memory
// that may have been repurposed by the backend.
type Node struct {
	f     *Factory
	index int
	epoch uint64
	freed bool
}

func (f *Factory) node(index int) Node {
	return Node{f: f, index: index, epoch: f.epoch}
}

// valid reports whether n can still be dereferenced against its factory.
func (n Node) valid() bool {
	return n.f != nil && !n.freed && n.epoch == n.f.epoch
}

func (n Node) check() (*Factory, int, error) {
	if !n.valid() {
		return nil, 0, newUseAfterFreeError("use of a freed or stale BDD node handle")
	}
	return n.f, n.index, nil
}

// sameFactory checks that n and m were minted by the same live Factory,
// returning a CrossFactoryError otherwise. Any error found is also recorded
// on whichever Factory is still reachable, so Factory.Error() reflects it
// even though the caller only has an invalid Node{} to work with.
func sameFactory(n, m Node) (*Factory, int, int, error) {
	f, a, err := n.check()
	if err != nil {
		if n.f != nil {
			n.f.seterror(err)
		}
		return nil, 0, 0, err
	}
	g, b, err := m.check()
	if err != nil {
		f.seterror(err)
		return nil, 0, 0, err
	}
	if f != g {
		err := newCrossFactoryError("operands belong to different Factory instances")
		f.seterror(err)
		g.seterror(err)
		return nil, 0, 0, err
	}
	return f, a, b, nil
}

// True returns the constant-true BDD of this factory.
func (f *Factory) True() Node { return f.node(1) }

// False returns the constant-false BDD of this factory.
func (f *Factory) False() Node { return f.node(0) }

// Ithvar returns the BDD for the positive literal of variable level.
func (f *Factory) Ithvar(level int) Node {
	if level < 0 || level >= f.store.varnum() {
		return f.errorf("variable level %d out of range [0,%d)", level, f.store.varnum())
	}
	return f.node(f.store.ithvar(int32(level)))
}

// NIthvar returns the BDD for the negative literal of variable level.
func (f *Factory) NIthvar(level int) Node {
	if level < 0 || level >= f.store.varnum() {
		return f.errorf("variable level %d out of range [0,%d)", level, f.store.varnum())
	}
	return f.node(f.store.nithvar(int32(level)))
}

// IsConst reports whether n is the constant true or false BDD.
func (n Node) IsConst() bool {
	_, idx, err := n.check()
	return err == nil && idx < 2
}

// IsTrue/IsFalse report whether n is exactly the constant.
func (n Node) IsTrue() bool {
	_, idx, err := n.check()
	return err == nil && idx == 1
}

func (n Node) IsFalse() bool {
	_, idx, err := n.check()
	return err == nil && idx == 0
}

// Var returns the variable level at the root of n, or -1 for a constant.
func (n Node) Var() int {
	f, idx, err := n.check()
	if err != nil || idx < 2 {
		return -1
	}
	return int(f.store.level(idx))
}

// Clone returns a new handle to the same underlying node, bumping its
// external reference count so the node survives a GC even if the original
// handle is freed first.
func (n Node) Clone() Node {
	f, idx, err := n.check()
	if err != nil {
		return n
	}
	f.store.addref(idx)
	return f.node(idx)
}

// Free releases this handle's claim on the underlying node. Using n after
// Free returns UseAfterFreeError. Free on an already-freed or stale handle
// is a no-op.
func (n *Node) Free() {
	f, idx, err := n.check()
	if err != nil {
		return
	}
	f.store.delref(idx)
	n.freed = true
}

// Factory returns the Factory that minted n.
func (n Node) Factory() *Factory { return n.f }
