// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// _TRIPLE and _PAIR are the hash functions used to index the direct-backend
// node table's hash buckets: #(level, low, high) folded into [0..len).

func _TRIPLE(a, b, c, len int) int {
	return int(_PAIR(c, _PAIR(a, b, len), len))
}

// _PAIR is a mapping function that maps (bijectively) a pair of integers (a,
// b) into a unique integer then casts it into a value in the interval
// [0..len) using a modulo operation.
func _PAIR(a, b, len int) int {
	ua := uint64(a)
	ub := uint64(b)
	return int(((((ua + ub) * (ua + ub + 1)) / 2) + ua) % uint64(len))
}

// tripleKey hashes a (level, low, high) triplet with xxhash into a 64-bit key
// used by the legacy (map-backed) node store, where we need a
// collision-resistant key rather than a bucket index.
func tripleKey(level int32, low, high int) uint64 {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(level))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(low))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(high))
	return xxhash.Sum64(buf[:])
}

// pairingKey hashes the entry set of a mutable pairing (sorted (old, image)
// rename pairs, followed by sorted (old, bdd) substitution pairs) into the
// key used by the factory's pairing dedup table (spec.md §4.5: semantically
// equal pairings must resolve to the same installed identity).
func pairingKey(entries []pairEntry, bddEntries []bddEntry) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(e.old))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(e.image))
		_, _ = h.Write(buf[:])
	}
	for _, e := range bddEntries {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(e.old))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(e.bdd))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
