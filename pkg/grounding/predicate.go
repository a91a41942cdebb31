package grounding

import "fmt"

// PredicateKind distinguishes predicates backed by a table in the data
// store from ones that are computed and never queried directly.
type PredicateKind int

const (
	// Standard predicates are backed by a relation in the data store and
	// may appear in the positive (queried) literals of a clause.
	Standard PredicateKind = iota
	// Derived predicates are computed; they may appear only in negative
	// literals, never as the queried projection of a clause.
	Derived
)

func (k PredicateKind) String() string {
	if k == Derived {
		return "derived"
	}
	return "standard"
}

// Predicate is a named, arity-typed symbol. Predicates are interned by name
// in a Registry so that two references to "Friend/2" are the same object.
type Predicate struct {
	Name  string
	Arity int
	Kind  PredicateKind
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s/%d", p.Name, p.Arity)
}

// Registry interns Predicate declarations by name, giving every Atom over
// the same predicate a stable, shared symbol. Atoms hold the symbol by
// value rather than pointing back into the registry, so there are no
// cyclic atom<->predicate references to manage.
type Registry struct {
	byName map[string]Predicate
}

// NewRegistry constructs an empty predicate registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Predicate)}
}

// Declare registers a predicate, returning an error if a predicate with the
// same name was already declared with different arity or kind.
func (r *Registry) Declare(name string, arity int, kind PredicateKind) (Predicate, error) {
	if existing, ok := r.byName[name]; ok {
		if existing.Arity != arity || existing.Kind != kind {
			return Predicate{}, fmt.Errorf("grounding: predicate %s already declared as %s, cannot redeclare as %s/%d",
				name, existing, kind, arity)
		}
		return existing, nil
	}
	p := Predicate{Name: name, Arity: arity, Kind: kind}
	r.byName[name] = p
	return p, nil
}

// Lookup returns the predicate registered under name, if any.
func (r *Registry) Lookup(name string) (Predicate, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// MustDeclare is Declare but panics on error; convenient in tests and the
// example program where predicate arities are known constants.
func (r *Registry) MustDeclare(name string, arity int, kind PredicateKind) Predicate {
	p, err := r.Declare(name, arity, kind)
	if err != nil {
		panic(err)
	}
	return p
}
