// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

// legacyNode is one entry of the legacy backend's node table, grounded on
// the teacher's hudd.go (huddnode), which kept the same four fields behind a
// manually byte-packed map key. Here the key is computed with xxhash
// (hashing.go's tripleKey) instead of a raw byte array, since Go map keys
// don't need to be fixed-size arrays the way the teacher's were.
type legacyNode struct {
	refcou int32
	level  int32
	low    int
	high   int
	free   bool
}

// legacyStore is the "legacy" nodeStore implementation: a slice of nodes
// addressed by index, hash-consed through a map from xxhash key to the list
// of node indices sharing that hash (a collision chain, since xxhash is not
// collision-free). Grounded on the teacher's hudd.go/hoperations.go, which
// used a native Go map as the unique table instead of the buddy backend's
// array-plus-chaining scheme.
type legacyStore struct {
	nodes    []legacyNode
	table    map[uint64][]int
	freelist []int
	nvars    int
	produced int
	gcruns   int
	cfg      *configs
}

func newLegacyStore(cfg *configs) (*legacyStore, error) {
	size := cfg.nodesize
	s := &legacyStore{
		nodes: make([]legacyNode, 2, size),
		table: make(map[uint64][]int, size),
		cfg:   cfg,
	}
	s.nodes[0] = legacyNode{refcou: _MAXREFCOUNT, level: int32(cfg.varnum), low: 0, high: 0}
	s.nodes[1] = legacyNode{refcou: _MAXREFCOUNT, level: int32(cfg.varnum), low: 1, high: 1}
	s.produced = 2

	if err := s.growVarnum(cfg.varnum); err != nil {
		return nil, err
	}
	return s, nil
}

// growVarnum is legacyStore's counterpart to directStore.growVarnum: see its
// comment.
func (s *legacyStore) growVarnum(newVarnum int) error {
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

func (s *legacyStore) name() string      { return "legacy" }
func (s *legacyStore) varnum() int       { return s.nvars }
func (s *legacyStore) size() int         { return len(s.nodes) }
func (s *legacyStore) level(n int) int32 { return s.nodes[n].level }
func (s *legacyStore) low(n int) int     { return s.nodes[n].low }
func (s *legacyStore) high(n int) int    { return s.nodes[n].high }

func (s *legacyStore) ithvar(level int32) int  { return 2 + 2*int(level) }
func (s *legacyStore) nithvar(level int32) int { return 2 + 2*int(level) + 1 }

func (s *legacyStore) refcount(n int) int32 { return s.nodes[n].refcou }

func (s *legacyStore) addref(n int) {
	if s.nodes[n].refcou < _MAXREFCOUNT {
		s.nodes[n].refcou++
	}
}

func (s *legacyStore) delref(n int) {
	if s.nodes[n].refcou > 0 && s.nodes[n].refcou < _MAXREFCOUNT {
		s.nodes[n].refcou--
	}
}

func (s *legacyStore) lookup(key uint64, level int32, low, high int) (int, bool) {
	for _, idx := range s.table[key] {
		n := s.nodes[idx]
		if !n.free && n.level == level && n.low == low && n.high == high {
			return idx, true
		}
	}
	return 0, false
}

func (s *legacyStore) makenode(level int32, low, high int, refstack []int) (int, error) {
	if low == high {
		return low, nil
	}
	key := tripleKey(level, low, high)
	if idx, ok := s.lookup(key, level, low, high); ok {
		return idx, nil
	}

	if len(s.freelist) == 0 {
		if err := s.gc(refstack); err != nil {
			return 0, err
		}
	}
	if len(s.freelist) == 0 {
		if err := s.grow(); err != nil {
			return 0, err
		}
	}

	idx := s.freelist[len(s.freelist)-1]
	s.freelist = s.freelist[:len(s.freelist)-1]
	s.produced++
	s.nodes[idx] = legacyNode{level: level, low: low, high: high}
	s.table[key] = append(s.table[key], idx)
	return idx, nil
}

func (s *legacyStore) grow() error {
	old := len(s.nodes)
	grow := old
	if s.cfg.maxnodeincrease > 0 && grow > s.cfg.maxnodeincrease {
		grow = s.cfg.maxnodeincrease
	}
	newsize := old + grow
	if s.cfg.maxnodesize > 0 && newsize > s.cfg.maxnodesize {
		newsize = s.cfg.maxnodesize
	}
	if newsize <= old {
		return newOutOfMemoryError("legacy store exhausted at %d nodes (maxnodesize reached)", old)
	}
	grown := make([]legacyNode, newsize)
	copy(grown, s.nodes)
	for i := newsize - 1; i >= old; i-- {
		grown[i].free = true
		s.freelist = append(s.freelist, i)
	}
	s.nodes = grown
	s.cfg.logger.Infof("rudd: legacy store grown from %d to %d nodes", old, newsize)
	return nil
}

// gc marks from every node with a positive external refcount, plus every
// node index named in refstack (the teacher's PUSHREF/POPREF discipline; see
// directStore.gc and Factory.pushref/popref), and sweeps everything else.
func (s *legacyStore) gc(refstack []int) error {
	s.gcruns++
	marked := make([]bool, len(s.nodes))
	var mark func(int)
	mark = func(n int) {
		if n < 2 || marked[n] {
			return
		}
		marked[n] = true
		mark(s.nodes[n].low)
		mark(s.nodes[n].high)
	}
	for i := 2; i < len(s.nodes); i++ {
		if s.nodes[i].refcou > 0 {
			mark(i)
		}
	}
	for _, r := range refstack {
		mark(r)
	}

	s.table = make(map[uint64][]int, len(s.nodes))
	s.freelist = s.freelist[:0]
	for i := 2; i < len(s.nodes); i++ {
		n := &s.nodes[i]
		if marked[i] {
			n.free = false
			key := tripleKey(n.level, n.low, n.high)
			s.table[key] = append(s.table[key], i)
			continue
		}
		n.free = true
		s.freelist = append(s.freelist, i)
	}
	if s.cfg.statshandler != nil {
		s.cfg.statshandler(s.stats())
	}
	return nil
}

func (s *legacyStore) allnodes(f func(id int, level int32, low, high int) bool) {
	for i := 2; i < len(s.nodes); i++ {
		n := s.nodes[i]
		if n.free {
			continue
		}
		if !f(i, n.level, n.low, n.high) {
			return
		}
	}
}

func (s *legacyStore) stats() Stats {
	return Stats{
		Backend:    s.name(),
		Variables:  s.nvars,
		NodesTotal: len(s.nodes),
		NodesUsed:  len(s.nodes) - len(s.freelist),
		NodesFree:  len(s.freelist),
		Produced:   s.produced,
		GCRuns:     s.gcruns,
	}
}

var _ nodeStore = (*legacyStore)(nil)
