package grounding

// GroundRule is a fully instantiated instance of a clause: its positive and
// negative literals with every variable replaced by a ground atom, plus a
// multiplicity counting how many distinct unifications produced an
// otherwise-identical rule.
type GroundRule struct {
	Pos          []*GroundAtom
	Neg          []*GroundAtom
	Multiplicity int
}

// NewGroundRule builds a ground rule from transient pos/neg buffers, copying
// the slices so the caller is free to reuse its scratch buffers on the next
// row; the rule never aliases a caller-owned slice.
func NewGroundRule(pos, neg []*GroundAtom) *GroundRule {
	p := make([]*GroundAtom, len(pos))
	copy(p, pos)
	n := make([]*GroundAtom, len(neg))
	copy(n, neg)
	return &GroundRule{Pos: p, Neg: n, Multiplicity: 1}
}

// IncreaseGroundings bumps the multiplicity of an existing ground rule when
// a new unification reproduces it.
func (g *GroundRule) IncreaseGroundings(by int) {
	g.Multiplicity += by
}

// identityKey returns a hash over the unordered multiset of signed ground
// atoms that determines a ground rule's identity for the purposes of
// merge-or-insert. Two ground rules with the same multiset of (sign,
// atom) pairs,
// regardless of order, hash to the same key.
func (g *GroundRule) identityKey() uint64 {
	var acc uint64
	for _, a := range g.Pos {
		acc ^= mix(a.identityKey(), 1)
	}
	for _, a := range g.Neg {
		acc ^= mix(a.identityKey(), 0)
	}
	return acc
}

// mix folds a sign bit into an atom's identity key before XOR-combining it
// into the rule's multiset hash, so swapping an atom between pos and neg
// changes the rule's identity.
func mix(key uint64, sign uint64) uint64 {
	key ^= sign + 0x9e3779b97f4a7c15 + (key << 6) + (key >> 2)
	return key*0xff51afd7ed558ccd + 1
}

// equalGroundRule reports whether two ground rules have the same multiset
// of signed ground atoms, used to resolve identityKey collisions.
func equalGroundRule(a, b *GroundRule) bool {
	if len(a.Pos) != len(b.Pos) || len(a.Neg) != len(b.Neg) {
		return false
	}
	return sameMultiset(a.Pos, b.Pos) && sameMultiset(a.Neg, b.Neg)
}

func sameMultiset(a, b []*GroundAtom) bool {
	remaining := make([]*GroundAtom, len(b))
	copy(remaining, b)
	for _, x := range a {
		found := -1
		for i, y := range remaining {
			if y != nil && equalGroundAtom(x, y) {
				found = i
				break
			}
		}
		if found == -1 {
			return false
		}
		remaining[found] = nil
	}
	return true
}
