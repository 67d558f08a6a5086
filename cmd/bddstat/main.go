// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command bddstat exercises a rudd Factory from the command line: it builds
// a BDD for a sample problem and reports the solution count together with
// the node-table and cache statistics, useful for comparing the "direct"
// and "legacy" backends on the same workload. Grounded on the teacher's
// nqueens_test.go (the N-Queens encoding) and structured as a cobra CLI the
// way github.com/AKJUS/bsc-erigon's command tree does.
package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticebdd/rudd"
)

var (
	backend   string
	nodesize  int
	cachesize int
	verbose   bool
)

func main() {
	root := &cobra.Command{
		Use:   "bddstat",
		Short: "Build sample BDDs and report node/cache statistics",
	}
	root.PersistentFlags().StringVar(&backend, "backend", "direct", `node-store backend: "direct" or "legacy"`)
	root.PersistentFlags().IntVar(&nodesize, "nodesize", 0, "initial node table size (0 = backend default)")
	root.PersistentFlags().IntVar(&cachesize, "cachesize", 0, "initial operator cache size (0 = backend default)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print the full Stats report")

	root.AddCommand(queensCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() []rudd.Option {
	var opts []rudd.Option
	if nodesize > 0 {
		opts = append(opts, rudd.Nodesize(nodesize))
	}
	if cachesize > 0 {
		opts = append(opts, rudd.Cachesize(cachesize))
	}
	logger := rudd.NewLogger()
	opts = append(opts, rudd.WithLogger(logger))
	return opts
}

func queensCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "queens",
		Short: "Count N-Queens solutions on an NxN board using a BDD",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, f, err := nqueens(n)
			if err != nil {
				return err
			}
			fmt.Printf("N=%d solutions=%s\n", n, count.String())
			if verbose {
				fmt.Println(f.Stats())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "size", "n", 8, "board size")
	return cmd
}

// nqueens builds the NxN chessboard encoding from the teacher's
// nqueens_test.go and returns the solution count and the Factory used, so
// the caller can print its Stats.
func nqueens(n int) (*big.Int, *rudd.Factory, error) {
	f, err := rudd.Init(backend, n*n, options()...)
	if err != nil {
		return nil, nil, err
	}

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

	if f.Errored() {
		return nil, nil, fmt.Errorf("%s", f.Error())
	}
	return queen.SatCount(), f, nil
}
