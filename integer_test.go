// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticebdd/rudd"
)

func TestBDDIntegerValue(t *testing.T) {
	f := newFactory(t, "direct", 4)
	vec := f.MakeInteger([]int{0, 1, 2, 3})

	five := vec.Value(5) // 0101 little-endian: bit0=1,bit1=0,bit2=1,bit3=0
	expected := f.Ithvar(0).And(f.NIthvar(1)).And(f.Ithvar(2)).And(f.NIthvar(3))
	require.True(t, five.Equal(expected))
}

func TestBDDIntegerRange(t *testing.T) {
	f := newFactory(t, "direct", 4)
	vec := f.MakeInteger([]int{0, 1, 2, 3})

	inRange := vec.InRange(4, 7)
	for v := uint64(0); v < 16; v++ {
		val := vec.Value(v)
		sat := val.And(inRange)
		if v >= 4 && v <= 7 {
			require.False(t, sat.IsFalse(), "value %d should be in range", v)
		} else {
			require.True(t, sat.IsFalse(), "value %d should not be in range", v)
		}
	}
}

func TestBDDPacketLength(t *testing.T) {
	f := newFactory(t, "direct", 8)
	lengths := rudd.BDDPacketLength(f, []int{0, 1, 2, 3, 4, 5, 6, 7}, 64, 128)
	require.False(t, lengths.IsFalse())
}
