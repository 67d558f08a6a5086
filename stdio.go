// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Print writes a table of every live node reachable from n to w: one row
// per node, giving its id, variable level, and low/high children, sorted by
// id. Grounded on the teacher's stdio.go (Print/print/print_set).
func (n Node) Print(w io.Writer) error {
	f, a, err := n.check()
	if err != nil {
		return err
	}
	type row struct {
		id         int
		level      int32
		low, high  int
	}
	var rows []row
	f.allnodesRaw([]int{a}, func(id int, level int32, low, high int) {
		rows = append(rows, row{id, level, low, high})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tw, "id\tvar\tlow\thigh")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", r.id, r.level, r.low, r.high)
	}
	return tw.Flush()
}

// PrintDot writes n as a Graphviz DOT graph to w: the two terminals as
// boxes, every other node in Graphviz's default shape labelled x<level>, a
// solid edge to the high child and a dashed edge to the low child.
// Grounded on the teacher's stdio.go (PrintDot/dotlabel).
func (n Node) PrintDot(w io.Writer) error {
	f, a, err := n.check()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "digraph G {")
	fmt.Fprintln(w, `  0 [shape=box, label="0", style=filled, shape=box, height=0.3, width=0.3];`)
	fmt.Fprintln(w, `  1 [shape=box, label="1", style=filled, shape=box, height=0.3, width=0.3];`)
	f.allnodesRaw([]int{a}, func(id int, level int32, low, high int) {
		fmt.Fprintf(w, "  %d [label=%q];\n", id, fmt.Sprintf("x%d", level))
		fmt.Fprintf(w, "  %d -> %d [style=solid];\n", id, high)
		fmt.Fprintf(w, "  %d -> %d [style=dashed];\n", id, low)
	})
	fmt.Fprintln(w, "}")
	return nil
}

// String renders a Stats snapshot in the same spirit as the teacher's
// Stats()/gcstats() string renderers: one summary line for the node table,
// one line per operator cache.
func (s Stats) String() string {
	out := fmt.Sprintf("rudd[%s]: %d vars, %d/%d nodes used, %d produced, %d gc runs",
		s.Backend, s.Variables, s.NodesUsed, s.NodesTotal, s.Produced, s.GCRuns)
	for _, cs := range s.CacheStats {
		out += "\n  " + cs.String()
	}
	return out
}
