package grounding

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Atom is a predicate applied to an arity-sized tuple of terms. An Atom is
// fully ground iff every term in Args is a GroundTerm.
type Atom struct {
	Predicate Predicate
	Args      []Term
}

// NewAtom constructs an atom, panicking if the argument count does not
// match the predicate's declared arity — a mismatch here is a programming
// error in the caller, not a runtime condition to recover from.
func NewAtom(pred Predicate, args ...Term) Atom {
	if len(args) != pred.Arity {
		panic("grounding: atom arity mismatch for " + pred.String())
	}
	return Atom{Predicate: pred, Args: args}
}

// IsGround reports whether every argument of the atom is a GroundTerm.
func (a Atom) IsGround() bool {
	for _, t := range a.Args {
		if !t.IsGround() {
			return false
		}
	}
	return true
}

// Variables returns the set of distinct variable names appearing in the
// atom's arguments, in first-occurrence order.
func (a Atom) Variables() []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range a.Args {
		if v, ok := t.(Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v.Name)
		}
	}
	return out
}

func (a Atom) String() string {
	var b strings.Builder
	b.WriteString(a.Predicate.Name)
	b.WriteByte('(')
	for i, arg := range a.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Substitute returns a copy of the atom with every Variable argument
// replaced per assignment. assignment is consulted before fallback if both
// are supplied (see RuleKernel.substituteAtom, used during event-driven
// grounding where a partial binding v must win over the row).
// Terms that are already ground are passed through unchanged. A term that
// is neither a Variable nor a GroundTerm is a broken invariant and yields
// UnknownTermKind.
func (a Atom) Substitute(assignment, fallback map[string]GroundTerm) (groundArgs []GroundTerm, err error) {
	groundArgs = make([]GroundTerm, len(a.Args))
	for i, t := range a.Args {
		switch v := t.(type) {
		case GroundTerm:
			groundArgs[i] = v
		case Variable:
			if g, ok := assignment[v.Name]; ok {
				groundArgs[i] = g
				continue
			}
			if g, ok := fallback[v.Name]; ok {
				groundArgs[i] = g
				continue
			}
			return nil, newTaggedError(UnboundVariable, "no binding for variable "+v.Name+" while grounding "+a.String())
		default:
			return nil, newTaggedError(UnknownTermKind, "term is neither Variable nor GroundTerm in "+a.String())
		}
	}
	return groundArgs, nil
}

// GroundAtom is a fully ground atom: a predicate plus a tuple of ground
// values. Identity is (predicate, tuple-of-values); the AtomManager
// interns GroundAtoms so that two calls describing the same identity
// return the same *GroundAtom pointer.
type GroundAtom struct {
	Predicate Predicate
	Values    []GroundTerm
}

func (g *GroundAtom) String() string {
	var b strings.Builder
	b.WriteString(g.Predicate.Name)
	b.WriteByte('(')
	for i, v := range g.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(')')
	return b.String()
}

// identityKey returns a stable, collision-resistant key for interning and
// for ground-rule multiset hashing. It is not intended to be
// human-readable; String() serves that purpose.
func (g *GroundAtom) identityKey() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(g.Predicate.Name)
	h.Write([]byte{0})
	for _, v := range g.Values {
		_, _ = h.WriteString(v.Kind.String())
		h.Write([]byte{0})
		_, _ = h.WriteString(v.String())
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// equalGroundAtom reports whether two ground atoms have the same predicate
// and values, independent of interning (used by the interning table to
// resolve hash collisions).
func equalGroundAtom(a, b *GroundAtom) bool {
	if a.Predicate != b.Predicate || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if !a.Values[i].Equal(b.Values[i]) {
			return false
		}
	}
	return true
}
