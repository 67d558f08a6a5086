// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

// number of bytes in a byte-packed (level, low, high) node triplet (adapted
// from uintSize in the math/bits package). Not referenced: the legacy
// backend's tripleKey packs its triplet into a fixed 20-byte buffer.
const huddsize = (2*(32<<(^uint(0)>>32&1)) + 32) / 8 // 12 (32 bits) or 20 (64 bits)

// _MINFREENODES is the default Minfreenodes percentage. It is stored in the
// configuration only; no backend reads it when deciding whether to resize.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of levels in the BDD. We use only the first 21
// bits for encoding levels (so also the max number of variables). We use 11
// other bits for markings. Hence we make sure to always use int32 to avoid
// problem when we change architecture.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the reference counter (refcou), also
// used to stick nodes (like constants and variables) in the node list. It is
// equal to 1023 (10 bits).
const _MAXREFCOUNT int32 = 0x3FF

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes.
const _DEFAULTMAXNODEINC int = 1 << 20

// _DEFAULTCACHESIZE is the default number of entries in each operator cache
// when Cachesize is not given to Init.
const _DEFAULTCACHESIZE int = 10000
