// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

// directNode is one slot of the direct backend's node table: an array of
// nodes plus a separate-chaining hash table over it, grounded on the
// teacher's buddy.go (buddynode) and bkernel.go (makenode/gbc/noderesize).
type directNode struct {
	refcou int32
	level  int32
	low    int
	high   int
	next   int // next node index sharing this node's hash bucket, -1 terminates
}

const directFreeListEnd = -1

// directStore is the "direct" nodeStore implementation: a flat array of
// nodes hash-consed through a bucket array sized to match the node table,
// exactly the BuDDy-style table the teacher's buddy.go/bkernel.go build
// under the `buddy` build tag. Here the backend is chosen at runtime instead
// of at compile time (spec.md §9).
type directStore struct {
	nodes   []directNode
	bucket  []int // bucket[h] is the index of the first node hashing to h, or -1
	nvars   int
	freepos int
	freenum int
	produced int
	gcruns  int
	cfg     *configs
}

func newDirectStore(cfg *configs) (*directStore, error) {
	size := primeGte(cfg.nodesize)
	s := &directStore{
		cfg: cfg,
	}
	s.allocate(size)

	// node 0 is the False terminal, node 1 is the True terminal; both are
	// pinned so they are never collected.
	s.nodes[0] = directNode{refcou: _MAXREFCOUNT, level: int32(cfg.varnum), low: 0, high: 0, next: directFreeListEnd}
	s.nodes[1] = directNode{refcou: _MAXREFCOUNT, level: int32(cfg.varnum), low: 1, high: 1, next: directFreeListEnd}
	s.freepos = 2
	for i := 2; i < size-1; i++ {
		s.nodes[i].next = i + 1
	}
	s.nodes[size-1].next = directFreeListEnd
	s.freenum = size - 2
	s.produced = 2

	if err := s.growVarnum(cfg.varnum); err != nil {
		return nil, err
	}
	return s, nil
}

// growVarnum adds ithvar/nithvar nodes for every level in [nvars, newVarnum)
// and re-pins the terminals' sentinel level, grounded on the teacher's
// varnum.go SetVarnum. Called once from newDirectStore (growing from 0) and
// again from Factory.SetVarnum/ExtVarnum (spec.md §3).
func (s *directStore) growVarnum(newVarnum int) error {
	if newVarnum <= s.nvars {
		return nil
	}
	s.nodes[0].level = int32(newVarnum)
	s.nodes[1].level = int32(newVarnum)
	for v := s.nvars; v < newVarnum; v++ {
		lo, err := s.makenode(int32(v), 0, 1, nil)
		if err != nil {
			return err
		}
		s.nodes[lo].refcou = _MAXREFCOUNT
		hi, err := s.makenode(int32(v), 1, 0, nil)
		if err != nil {
			return err
		}
		s.nodes[hi].refcou = _MAXREFCOUNT
	}
	s.nvars = newVarnum
	return nil
}

func (s *directStore) allocate(size int) {
	s.nodes = make([]directNode, size)
	s.bucket = make([]int, size)
	for i := range s.bucket {
		s.bucket[i] = directFreeListEnd
	}
}

func (s *directStore) name() string   { return "direct" }
func (s *directStore) varnum() int    { return s.nvars }
func (s *directStore) size() int      { return len(s.nodes) }
func (s *directStore) level(n int) int32 { return s.nodes[n].level }
func (s *directStore) low(n int) int     { return s.nodes[n].low }
func (s *directStore) high(n int) int    { return s.nodes[n].high }

// ithvar/nithvar rely on the invariant set up in newDirectStore: the two
// nodes for variable v were the (2v+2)th and (2v+3)rd nodes ever produced,
// immediately after the two terminals.
func (s *directStore) ithvar(level int32) int  { return 2 + 2*int(level) }
func (s *directStore) nithvar(level int32) int { return 2 + 2*int(level) + 1 }

func (s *directStore) refcount(n int) int32 { return s.nodes[n].refcou }

func (s *directStore) addref(n int) {
	if s.nodes[n].refcou < _MAXREFCOUNT {
		s.nodes[n].refcou++
	}
}

func (s *directStore) delref(n int) {
	if s.nodes[n].refcou > 0 && s.nodes[n].refcou < _MAXREFCOUNT {
		s.nodes[n].refcou--
	}
}

func (s *directStore) bucketOf(level int32, low, high int) int {
	return _TRIPLE(int(level), low, high, len(s.bucket))
}

func (s *directStore) makenode(level int32, low, high int, refstack []int) (int, error) {
	if low == high {
		return low, nil
	}
	h := s.bucketOf(level, low, high)
	for idx := s.bucket[h]; idx != directFreeListEnd; idx = s.nodes[idx].next {
		n := s.nodes[idx]
		if n.level == level && n.low == low && n.high == high {
			return idx, nil
		}
	}

	if s.freepos == directFreeListEnd {
		if err := s.gc(refstack); err != nil {
			return 0, err
		}
		if s.freepos == directFreeListEnd {
			if err := s.resize(); err != nil {
				return 0, err
			}
			h = s.bucketOf(level, low, high)
		}
	}

	idx := s.freepos
	s.freepos = s.nodes[idx].next
	s.freenum--
	s.produced++

	s.nodes[idx] = directNode{level: level, low: low, high: high, next: s.bucket[h]}
	s.bucket[h] = idx
	return idx, nil
}

// gc marks from every node with a positive external refcount, plus every
// node index named in refstack, and sweeps everything else. refstack is how
// a caller mid-recursion (apply/ite/quant/...) protects a result it has only
// in a local Go variable and has not yet linked into a parent node or
// ref-counted, mirroring the teacher's bkernel.go PUSHREF/POPREF discipline
// (see Factory.pushref/popref).
func (s *directStore) gc(refstack []int) error {
	s.gcruns++
	for i := 2; i < len(s.nodes); i++ {
		s.nodes[i].level &^= markedBit
	}
	for i := 2; i < len(s.nodes); i++ {
		if s.nodes[i].refcou > 0 {
			s.directMark(i)
		}
	}
	for _, r := range refstack {
		s.directMark(r)
	}

	for i := range s.bucket {
		s.bucket[i] = directFreeListEnd
	}
	s.freepos = directFreeListEnd
	s.freenum = 0

	for i := len(s.nodes) - 1; i >= 2; i-- {
		n := &s.nodes[i]
		if n.level&markedBit != 0 {
			n.level &^= markedBit
			h := s.bucketOf(n.level, n.low, n.high)
			n.next = s.bucket[h]
			s.bucket[h] = i
			continue
		}
		n.low, n.high = -1, -1
		n.next = s.freepos
		s.freepos = i
		s.freenum++
	}
	if s.cfg.statshandler != nil {
		s.cfg.statshandler(s.stats())
	}
	return nil
}

// markedBit is stolen from the level field, mirroring the teacher's
// ismarked/marknode/unmarknode use of a high bit in buddy.go.
const markedBit int32 = 0x200000

func (s *directStore) directMark(n int) {
	if n < 2 || s.nodes[n].level&markedBit != 0 {
		return
	}
	s.nodes[n].level |= markedBit
	s.directMark(s.nodes[n].low)
	s.directMark(s.nodes[n].high)
}

func (s *directStore) resize() error {
	old := len(s.nodes)
	grow := old
	if s.cfg.maxnodeincrease > 0 && grow > s.cfg.maxnodeincrease {
		grow = s.cfg.maxnodeincrease
	}
	newsize := primeGte(old + grow)
	if s.cfg.maxnodesize > 0 && newsize > s.cfg.maxnodesize {
		newsize = s.cfg.maxnodesize
	}
	if newsize <= old {
		return newOutOfMemoryError("direct store exhausted at %d nodes (maxnodesize reached)", old)
	}

	grown := make([]directNode, newsize)
	copy(grown, s.nodes)
	for i := old; i < newsize; i++ {
		grown[i].next = i + 1
	}
	grown[newsize-1].next = directFreeListEnd
	s.nodes = grown
	s.bucket = make([]int, newsize)
	for i := range s.bucket {
		s.bucket[i] = directFreeListEnd
	}

	s.freepos = directFreeListEnd
	s.freenum = 0
	for i := newsize - 1; i >= 2; i-- {
		if s.nodes[i].low == -1 && s.nodes[i].high == -1 {
			s.nodes[i].next = s.freepos
			s.freepos = i
			s.freenum++
			continue
		}
		if i >= old {
			s.nodes[i].next = s.freepos
			s.freepos = i
			s.freenum++
			continue
		}
		h := s.bucketOf(s.nodes[i].level, s.nodes[i].low, s.nodes[i].high)
		s.nodes[i].next = s.bucket[h]
		s.bucket[h] = i
	}
	s.cfg.logger.Infof("rudd: direct store resized from %d to %d nodes", old, newsize)
	return nil
}

func (s *directStore) allnodes(f func(id int, level int32, low, high int) bool) {
	for i := 2; i < len(s.nodes); i++ {
		n := s.nodes[i]
		if n.low == n.high {
			continue // free or never-allocated slot: live nodes never have low == high
		}
		if !f(i, n.level, n.low, n.high) {
			return
		}
	}
}

func (s *directStore) stats() Stats {
	return Stats{
		Backend:    s.name(),
		Variables:  s.nvars,
		NodesTotal: len(s.nodes),
		NodesUsed:  len(s.nodes) - s.freenum,
		NodesFree:  s.freenum,
		Produced:   s.produced,
		GCRuns:     s.gcruns,
	}
}

var _ nodeStore = (*directStore)(nil)
