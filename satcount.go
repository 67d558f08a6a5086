// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import "math/big"

// satcount computes the number of satisfying assignments of a over all
// Varnum variables, weighting each path by 2^(gap in levels skipped), using
// math/big since the count can exceed a machine word long before the
// variable count gets large. Grounded on the teacher's Satcount/satcount.
func (f *Factory) satcount(a int) *big.Int {
	if a == 0 {
		return big.NewInt(0)
	}
	cache := make(map[int]*big.Int)
	var rec func(int) *big.Int
	rec = func(n int) *big.Int {
		if n == 0 {
			return big.NewInt(0)
		}
		if n == 1 {
			return big.NewInt(1)
		}
		if v, ok := cache[n]; ok {
			return v
		}
		lev := f.store.level(n)
		lo, hi := f.store.low(n), f.store.high(n)

		loCount := new(big.Int).Lsh(rec(lo), uint(f.levelGap(lev, lo)))
		hiCount := new(big.Int).Lsh(rec(hi), uint(f.levelGap(lev, hi)))
		total := new(big.Int).Add(loCount, hiCount)
		cache[n] = total
		return total
	}
	result := rec(a)
	return new(big.Int).Lsh(result, uint(f.levelOf(a)))
}

// levelGap returns the number of variable levels strictly between parent and
// child, i.e. how many variables were skipped by the reduction rule and
// therefore contribute a free factor of 2 each to the satisfying-assignment
// count.
func (f *Factory) levelGap(parent int32, child int) int32 {
	return f.levelOf(child) - parent - 1
}

// pathcount counts the number of paths from a to the True terminal,
// ignoring level gaps (unlike satcount); it backs Node.PathCount, a
// node-structural count rather than an assignment count.
func (f *Factory) pathcount(a int) *big.Int {
	cache := make(map[int]*big.Int)
	var rec func(int) *big.Int
	rec = func(n int) *big.Int {
		if n == 0 {
			return big.NewInt(0)
		}
		if n == 1 {
			return big.NewInt(1)
		}
		if v, ok := cache[n]; ok {
			return v
		}
		total := new(big.Int).Add(rec(f.store.low(n)), rec(f.store.high(n)))
		cache[n] = total
		return total
	}
	return rec(a)
}
