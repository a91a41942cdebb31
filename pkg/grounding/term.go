// Package grounding implements the rule-grounding core of a probabilistic
// logic reasoning engine: translating validated first-order rules into
// relational queries against a partitioned data store, and expanding query
// results into ground rules.
//
// The Term/Atom/Predicate model here plays the role that Term/Var/Atom play
// in a miniKanren-style engine, adapted from an unground, unification-first
// vocabulary to a ground/query-first one: a Term is either a Variable bound
// only within a single clause's scope, or a GroundTerm carrying one of a
// fixed set of constant kinds.
package grounding

import (
	"fmt"

	"github.com/google/uuid"
)

// Term is either a Variable or a GroundTerm. It is the atomic building
// block of Atoms, which are in turn the building blocks of Formulas and
// GroundRules.
type Term interface {
	// String returns a human-readable representation of the term.
	String() string
	// IsGround reports whether the term carries no variable.
	IsGround() bool
}

// Variable is a named placeholder, compared by name within a single
// formula/clause scope. Two Variables with the same Name are the same
// variable for the purposes of binding-invariant checking and unification
// against query rows.
type Variable struct {
	Name string
}

// NewVariable constructs a Variable with the given name.
func NewVariable(name string) Variable { return Variable{Name: name} }

func (v Variable) String() string { return v.Name }
func (v Variable) IsGround() bool { return false }

// ConstantKind enumerates the constant kinds a GroundTerm's value may
// carry: integer id, string, unique identifier, or double.
type ConstantKind int

const (
	// IntegerKind marks a GroundTerm backed by an int64 id.
	IntegerKind ConstantKind = iota
	// StringKind marks a GroundTerm backed by a string.
	StringKind
	// UniqueIDKind marks a GroundTerm backed by a uuid.UUID.
	UniqueIDKind
	// DoubleKind marks a GroundTerm backed by a float64.
	DoubleKind
)

func (k ConstantKind) String() string {
	switch k {
	case IntegerKind:
		return "integer"
	case StringKind:
		return "string"
	case UniqueIDKind:
		return "uuid"
	case DoubleKind:
		return "double"
	default:
		return "unknown"
	}
}

// GroundTerm is a fully-instantiated constant term. Identity and equality
// are by (Kind, value); GroundTerms are comparable with == only when callers
// are careful to only ever store the primitive fields below, which is why
// GroundTerm is a plain struct of comparable fields rather than an
// interface{}-backed one.
type GroundTerm struct {
	Kind    ConstantKind
	Integer int64
	Str     string
	UUID    uuid.UUID
	Double  float64
}

// Int builds an integer-kind GroundTerm.
func Int(v int64) GroundTerm { return GroundTerm{Kind: IntegerKind, Integer: v} }

// Str builds a string-kind GroundTerm.
func Str(v string) GroundTerm { return GroundTerm{Kind: StringKind, Str: v} }

// UID builds a unique-identifier-kind GroundTerm.
func UID(v uuid.UUID) GroundTerm { return GroundTerm{Kind: UniqueIDKind, UUID: v} }

// Double builds a double-kind GroundTerm.
func Double(v float64) GroundTerm { return GroundTerm{Kind: DoubleKind, Double: v} }

func (g GroundTerm) IsGround() bool { return true }

func (g GroundTerm) String() string {
	switch g.Kind {
	case IntegerKind:
		return fmt.Sprintf("%d", g.Integer)
	case StringKind:
		return g.Str
	case UniqueIDKind:
		return g.UUID.String()
	case DoubleKind:
		return fmt.Sprintf("%g", g.Double)
	default:
		return "<unknown-term>"
	}
}

// Equal reports value equality of two ground terms under their kind. Mixed
// kinds are never equal, even if their string renderings coincide.
func (g GroundTerm) Equal(other GroundTerm) bool {
	if g.Kind != other.Kind {
		return false
	}
	switch g.Kind {
	case IntegerKind:
		return g.Integer == other.Integer
	case StringKind:
		return g.Str == other.Str
	case UniqueIDKind:
		return g.UUID == other.UUID
	case DoubleKind:
		return g.Double == other.Double
	default:
		return false
	}
}

// Compile-time checks that both GroundTerm and Variable satisfy Term.
var _ Term = GroundTerm{}
var _ Term = Variable{}
