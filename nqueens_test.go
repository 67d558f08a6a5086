// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticebdd/rudd"
)

// nqueens computes the number of solutions for the N-Queens problem, one BDD
// variable per board square, following the same encoding as the teacher's
// nqueens_test.go (board read row-major: variable i*N+j is square (i,j)).
func nqueens(t *testing.T, backend string, n int) *big.Int {
	f := newFactory(t, backend, n*n, rudd.Nodesize(n*n*256), rudd.Cachesize(n*n*64), rudd.Cacheratio(30))

	x := make([][]rudd.Node, n)
	for i := range x {
		x[i] = make([]rudd.Node, n)
		for j := range x[i] {
			x[i][j] = f.Ithvar(i*n + j)
		}
	}

	queen := f.True()
	for i := 0; i < n; i++ {
		row := f.False()
		for j := 0; j < n; j++ {
			row = row.Or(x[i][j])
		}
		queen = queen.And(row)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a := f.True()
			for k := 0; k < n; k++ {
				if k != j {
					a = a.And(x[i][j].Imp(x[i][k].Not()))
				}
			}
			b := f.True()
			for k := 0; k < n; k++ {
				if k != i {
					b = b.And(x[i][j].Imp(x[k][j].Not()))
				}
			}
			c := f.True()
			for k := 0; k < n; k++ {
				if ll := k - i + j; ll >= 0 && ll < n && k != i {
					c = c.And(x[i][j].Imp(x[k][ll].Not()))
				}
			}
			d := f.True()
			for k := 0; k < n; k++ {
				if ll := i + j - k; ll >= 0 && ll < n && k != i {
					d = d.And(x[i][j].Imp(x[k][ll].Not()))
				}
			}
			queen = rudd.AndAll(f, queen, a, b, c, d)
		}
	}

	require.False(t, f.Errored())
	return queen.SatCount()
}

func TestNQueens(t *testing.T) {
	tests := []struct {
		n        int
		expected int64
	}{
		{4, 2},
		{8, 92},
	}
	for _, backend := range []string{"direct", "legacy"} {
		for _, tt := range tests {
			t.Run(backend, func(t *testing.T) {
				actual := nqueens(t, backend, tt.n)
				require.Equal(t, big.NewInt(tt.expected).String(), actual.String())
			})
		}
	}
}
