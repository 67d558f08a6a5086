// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import "sort"

// pairEntry is one explicit (source level -> target level) rename mapping of
// a Pairing, kept sorted by old so two Pairings with the same entry set hash
// and compare equal regardless of the order Set was called in.
type pairEntry struct {
	old   int32
	image int32
}

// bddEntry is one (source level -> arbitrary BDD) substitution entry of a
// Pairing, the "or an arbitrary BDD" half of spec.md §3/§4.5's pairing
// contract. It is applied by compose, after the plain rename entries have
// been applied by replace/correctify.
type bddEntry struct {
	old int32
	bdd int
}

// Pairing is a variable substitution used by Replace to rename variables
// between two variable namespaces (e.g. after a relational product), or to
// substitute a variable with an arbitrary BDD. It starts out mutable:
// Set/SetBDD can be called any number of times. Once FreezeAndInstall is
// called it becomes immutable and is deduplicated against every other frozen
// Pairing of the same Factory with the same entry set, so Replace's cache
// (keyed on Pairing identity) gets hits across semantically-identical
// Pairings built at different call sites (spec.md §4.5). Grounded on the
// teacher's replace.go (Replacer/replacer), extended with the freeze/dedup
// lifecycle the teacher did not need because it never cached across distinct
// Replacer values, and with bddEntries for the "arbitrary BDD" substitution
// half spec.md requires that the teacher never implemented.
type Pairing struct {
	f          *Factory
	image      []int32
	entries    []pairEntry
	bddEntries []bddEntry
	frozen     bool
	id         int
	key        uint64
}

// NewPairing returns a new, mutable identity Pairing for f.
func (f *Factory) NewPairing() *Pairing {
	image := make([]int32, f.store.varnum())
	for i := range image {
		image[i] = int32(i)
	}
	return &Pairing{f: f, image: image}
}

// Set maps variable level old to new. It returns FrozenPairingMutationError
// if called after FreezeAndInstall. Calling Set on a level previously given
// to SetBDD replaces that substitution with a plain rename.
func (p *Pairing) Set(old, new int) error {
	if p.frozen {
		return newFrozenPairingMutationError("Set called on a frozen Pairing")
	}
	if old < 0 || old >= len(p.image) || new < 0 {
		return newConfigurationError("pairing variable %d out of range [0,%d)", old, len(p.image))
	}
	p.image[old] = int32(new)
	p.removeBDDEntry(int32(old))
	for i, e := range p.entries {
		if e.old == int32(old) {
			p.entries[i].image = int32(new)
			return nil
		}
	}
	p.entries = append(p.entries, pairEntry{old: int32(old), image: int32(new)})
	return nil
}

// SetBDD maps variable level old to the arbitrary BDD g, the half of
// spec.md §3/§4.5's pairing contract a plain rename can't express. Replace
// applies every SetBDD entry via compose, after the plain Set/SetAll renames
// have been applied, in descending level order. It returns
// FrozenPairingMutationError if called after FreezeAndInstall, or
// CrossFactoryError if g belongs to a different Factory. g is pinned
// (addref'd) for as long as this Pairing is installed.
func (p *Pairing) SetBDD(old int, g Node) error {
	if p.frozen {
		return newFrozenPairingMutationError("SetBDD called on a frozen Pairing")
	}
	if old < 0 || old >= len(p.image) {
		return newConfigurationError("pairing variable %d out of range [0,%d)", old, len(p.image))
	}
	gf, idx, err := g.check()
	if err != nil {
		return err
	}
	if gf != p.f {
		return newCrossFactoryError("SetBDD: replacement BDD belongs to a different Factory")
	}
	p.f.store.addref(idx)
	p.image[old] = int32(old)
	p.removeRenameEntry(int32(old))
	for i, e := range p.bddEntries {
		if e.old == int32(old) {
			p.bddEntries[i].bdd = idx
			return nil
		}
	}
	p.bddEntries = append(p.bddEntries, bddEntry{old: int32(old), bdd: idx})
	return nil
}

func (p *Pairing) removeBDDEntry(old int32) {
	for i, e := range p.bddEntries {
		if e.old == old {
			p.bddEntries = append(p.bddEntries[:i], p.bddEntries[i+1:]...)
			return
		}
	}
}

func (p *Pairing) removeRenameEntry(old int32) {
	for i, e := range p.entries {
		if e.old == old {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return
		}
	}
}

// SetAll is a batch form of Set: olds[i] is mapped to news[i]. It returns a
// ConfigurationError if the two slices have different lengths.
func (p *Pairing) SetAll(olds, news []int) error {
	if len(olds) != len(news) {
		return newConfigurationError("SetAll: mismatched slice lengths (%d old, %d new)", len(olds), len(news))
	}
	for i := range olds {
		if err := p.Set(olds[i], news[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pairing) image32(level int32) int32 {
	if int(level) < 0 || int(level) >= len(p.image) {
		return level
	}
	return p.image[level]
}

// FreezeAndInstall freezes p and installs it into its Factory's dedup table.
// If an equal Pairing (same entry set) was already installed, that existing
// *Pairing is returned instead and p is discarded; otherwise p itself is
// returned, now frozen. Pass the result to Replace.
func (p *Pairing) FreezeAndInstall() *Pairing {
	if p.frozen {
		return p
	}
	sort.Slice(p.entries, func(i, j int) bool { return p.entries[i].old < p.entries[j].old })
	sort.Slice(p.bddEntries, func(i, j int) bool { return p.bddEntries[i].old < p.bddEntries[j].old })
	p.key = pairingKey(p.entries, p.bddEntries)
	for _, existing := range p.f.pairings {
		if existing.key == p.key && existing.sameEntries(p.entries, p.bddEntries) {
			return existing
		}
	}
	p.frozen = true
	p.id = len(p.f.pairings) + 1
	p.f.pairings = append(p.f.pairings, p)
	return p
}

func (p *Pairing) sameEntries(entries []pairEntry, bddEntries []bddEntry) bool {
	if len(p.entries) != len(entries) || len(p.bddEntries) != len(bddEntries) {
		return false
	}
	for i := range entries {
		if p.entries[i] != entries[i] {
			return false
		}
	}
	for i := range bddEntries {
		if p.bddEntries[i] != bddEntries[i] {
			return false
		}
	}
	return true
}
