// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticebdd/rudd"
)

func newFactory(t *testing.T, backend string, varnum int, opts ...rudd.Option) *rudd.Factory {
	t.Helper()
	f, err := rudd.Init(backend, varnum, opts...)
	require.NoError(t, err)
	require.False(t, f.Errored())
	return f
}

func TestBasicConnectives(t *testing.T) {
	for _, backend := range []string{"direct", "legacy"} {
		t.Run(backend, func(t *testing.T) {
			f := newFactory(t, backend, 6, rudd.Nodesize(10000), rudd.Cachesize(3000))

			n1 := f.Makeset([]int{2, 3, 5})
			n2 := f.Ithvar(1).Or(f.NIthvar(3)).Or(f.Ithvar(4))
			n3 := n2.And(f.Ithvar(3)).Exist(n1)

			require.False(t, f.Errored())
			require.Equal(t, "48", n3.SatCount().String())
		})
	}
}

func TestAllSatSkipsDontCareDuplicates(t *testing.T) {
	f := newFactory(t, "direct", 5)
	n := f.Ithvar(1).Or(f.NIthvar(3)).Or(f.Ithvar(4)).And(f.Ithvar(3)).Exist(f.Makeset([]int{2, 3}))

	count := 0
	n.AllSat(func([]int8) { count++ })
	require.Equal(t, 2, count)
}

func TestAllNodesCountsActiveNodes(t *testing.T) {
	f := newFactory(t, "direct", 5)
	n := f.Ithvar(1).Or(f.NIthvar(3)).Or(f.Ithvar(4)).And(f.Ithvar(3)).Exist(f.Makeset([]int{2, 3}))

	count := 0
	n.AllNodes(func(level, low, high int) { count++ })
	require.Equal(t, 2, count)
}

func TestFactoryAllNodesCoversWholeTable(t *testing.T) {
	f := newFactory(t, "direct", 5)
	_ = f.Ithvar(1).Or(f.NIthvar(3)).Or(f.Ithvar(4)).And(f.Ithvar(3)).Exist(f.Makeset([]int{2, 3}))

	count := 0
	f.AllNodes(func(level, low, high int) { count++ })
	require.Greater(t, count, 0)
}

func TestReplaceIsLevelConsistent(t *testing.T) {
	f := newFactory(t, "direct", 4)
	n := f.Ithvar(0).And(f.Ithvar(1))

	p := f.NewPairing()
	require.NoError(t, p.Set(0, 2))
	require.NoError(t, p.Set(1, 3))

	replaced := n.Replace(p)
	require.Equal(t, f.Ithvar(2).And(f.Ithvar(3)), replaced)
}

func TestPairingDedupSharesIdentity(t *testing.T) {
	f := newFactory(t, "direct", 4)
	p1 := f.NewPairing()
	require.NoError(t, p1.Set(0, 2))
	p1 = p1.FreezeAndInstall()

	p2 := f.NewPairing()
	require.NoError(t, p2.Set(0, 2))
	p2 = p2.FreezeAndInstall()

	require.Same(t, p1, p2)
}

func TestFrozenPairingRejectsMutation(t *testing.T) {
	f := newFactory(t, "direct", 4)
	p := f.NewPairing().FreezeAndInstall()
	err := p.Set(0, 1)
	require.Error(t, err)
	var target *rudd.FrozenPairingMutationError
	require.ErrorAs(t, err, &target)
}

func TestUseAfterFree(t *testing.T) {
	f := newFactory(t, "direct", 3)
	n := f.Ithvar(0)
	n.Free()
	require.False(t, n.Equal(f.Ithvar(0)))

	_ = n.And(f.True())
	require.True(t, f.Errored())
	var target *rudd.UseAfterFreeError
	require.ErrorAs(t, f.Cause(), &target)
}

func TestCrossFactoryErrorOnMixedOperands(t *testing.T) {
	f1 := newFactory(t, "direct", 3)
	f2 := newFactory(t, "direct", 3)
	res := f1.Ithvar(0).And(f2.Ithvar(0))
	require.False(t, res.IsConst()) // the zero-value Node is neither a valid true nor false handle
	require.True(t, f1.Errored())
	var target *rudd.CrossFactoryError
	require.ErrorAs(t, f1.Cause(), &target)
}

func TestResetInvalidatesHandles(t *testing.T) {
	f := newFactory(t, "direct", 3)
	n := f.Ithvar(0)
	require.NoError(t, f.Reset())
	require.False(t, f.Errored())

	_ = n.And(f.True()) // n's epoch is now stale
	require.True(t, f.Errored())

	after := f.Ithvar(0)
	require.True(t, after.Equal(f.Ithvar(0)))
}

func TestSatCountWeightsSkippedLevels(t *testing.T) {
	f := newFactory(t, "direct", 3)
	n := f.Ithvar(0)
	// x0 alone, over 3 variables, is satisfied by 4 assignments: x1,x2 free.
	require.Equal(t, big.NewInt(4).String(), n.SatCount().String())
}

func TestPrintDotProducesAGraph(t *testing.T) {
	f := newFactory(t, "direct", 2)
	n := f.Ithvar(0).And(f.Ithvar(1))
	var buf bytes.Buffer
	require.NoError(t, n.PrintDot(&buf))
	require.Contains(t, buf.String(), "digraph G")
}

func TestBackendFallbackOnUnknownName(t *testing.T) {
	f := newFactory(t, "bogus-backend", 3)
	require.Equal(t, "direct", f.Backend())
}

func TestCompose(t *testing.T) {
	f := newFactory(t, "direct", 4)
	n := f.Ithvar(0).And(f.Ithvar(1))
	g := f.Ithvar(2).Or(f.Ithvar(3))

	composed := n.Compose(0, g)
	expected := g.And(f.Ithvar(1))
	require.True(t, composed.Equal(expected))
}

func TestPairingSetBDDSubstitutesArbitraryBDD(t *testing.T) {
	f := newFactory(t, "direct", 4)
	n := f.Ithvar(0).And(f.Ithvar(1))
	g := f.Ithvar(2).Or(f.Ithvar(3))

	p := f.NewPairing()
	require.NoError(t, p.SetBDD(0, g))

	replaced := n.Replace(p)
	expected := g.And(f.Ithvar(1))
	require.True(t, replaced.Equal(expected))
}

func TestPairingSetBDDMixedWithRename(t *testing.T) {
	f := newFactory(t, "direct", 5)
	n := f.Ithvar(0).And(f.Ithvar(1))
	g := f.Ithvar(3)

	p := f.NewPairing()
	require.NoError(t, p.SetBDD(0, g))
	require.NoError(t, p.Set(1, 2))

	replaced := n.Replace(p)
	expected := f.Ithvar(3).And(f.Ithvar(2))
	require.True(t, replaced.Equal(expected))
}

func TestSetVarnumGrowsVariables(t *testing.T) {
	f := newFactory(t, "direct", 2)
	require.Equal(t, 2, f.Varnum())

	require.NoError(t, f.SetVarnum(4))
	require.Equal(t, 4, f.Varnum())

	n := f.Ithvar(3)
	require.False(t, n.IsConst())
	require.False(t, f.Errored())
}

func TestExtVarnumGrowsByDelta(t *testing.T) {
	f := newFactory(t, "direct", 2)
	require.NoError(t, f.ExtVarnum(3))
	require.Equal(t, 5, f.Varnum())
}

func TestSetVarnumRejectsShrink(t *testing.T) {
	f := newFactory(t, "direct", 4)
	err := f.SetVarnum(2)
	require.Error(t, err)
	var target *rudd.ConfigurationError
	require.ErrorAs(t, err, &target)
	require.Equal(t, 4, f.Varnum())
}

func TestMakesetRejectsOutOfOrderLevels(t *testing.T) {
	f := newFactory(t, "direct", 5)
	_ = f.Makeset([]int{3, 1})
	require.True(t, f.Errored())
	var target *rudd.ConfigurationError
	require.ErrorAs(t, f.Cause(), &target)
}

func TestGCReclaimsUnreferencedNodes(t *testing.T) {
	f := newFactory(t, "direct", 4, rudd.Nodesize(10))
	n := f.Ithvar(0).And(f.Ithvar(1))
	statsBefore := f.Stats()
	n.Free()
	require.NoError(t, f.GC())
	statsAfter := f.Stats()
	require.GreaterOrEqual(t, statsAfter.NodesFree, statsBefore.NodesFree)
}
