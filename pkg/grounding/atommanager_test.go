package grounding

import (
	"context"
	"sync"
	"testing"
)

// stubDatabase is a minimal grounding.Database for atom-manager tests that
// don't need real query execution.
type stubDatabase struct {
	rows ResultList
	err  error
}

func (s *stubDatabase) ExecuteQuery(ctx context.Context, q *Query) (ResultList, error) {
	return s.rows, s.err
}
func (s *stubDatabase) Close() error { return nil }

func TestAtomManagerGetAtomInterns(t *testing.T) {
	reg := NewRegistry()
	p := reg.MustDeclare("P", 1, Standard)
	bus := NewEventBus()
	atoms := NewAtomManager(&stubDatabase{}, bus, nil)

	a1 := atoms.GetAtom(p, []GroundTerm{Str("x")})
	a2 := atoms.GetAtom(p, []GroundTerm{Str("x")})
	if a1 != a2 {
		t.Fatal("expected GetAtom to return the same pointer for the same identity")
	}
}

func TestAtomManagerGetAtomConcurrentDedup(t *testing.T) {
	reg := NewRegistry()
	p := reg.MustDeclare("P", 1, Standard)
	bus := NewEventBus()
	atoms := NewAtomManager(&stubDatabase{}, bus, nil)

	const n = 50
	results := make([]*GroundAtom, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = atoms.GetAtom(p, []GroundTerm{Str("shared")})
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatal("expected every concurrent GetAtom call for the same identity to see the same interned pointer")
		}
	}
}

func TestAtomManagerActivatePublishesOnlyOnce(t *testing.T) {
	reg := NewRegistry()
	p := reg.MustDeclare("P", 1, Standard)
	bus := NewEventBus()
	atoms := NewAtomManager(&stubDatabase{}, bus, nil)

	var calls int
	bus.Register(nil, func(a *GroundAtom) { calls++ }, AtomActivated)

	atom := &GroundAtom{Predicate: p, Values: []GroundTerm{Str("x")}}
	atoms.Activate(atom)
	atoms.Activate(atom)
	atoms.Activate(atom)

	if calls != 1 {
		t.Fatalf("expected exactly 1 publish across repeated activations of the same atom, got %d", calls)
	}
}

func TestAtomManagerGetAtomDoesNotActivate(t *testing.T) {
	reg := NewRegistry()
	p := reg.MustDeclare("P", 1, Standard)
	bus := NewEventBus()
	atoms := NewAtomManager(&stubDatabase{}, bus, nil)

	var calls int
	bus.Register(nil, func(a *GroundAtom) { calls++ }, AtomActivated)

	atom := atoms.GetAtom(p, []GroundTerm{Str("x")})
	if calls != 0 {
		t.Fatal("GetAtom must not publish an activation event itself")
	}

	// Interning is not activation: the atom's own later Activate must
	// still publish, even though the grounder has already observed it.
	atoms.Activate(atom)
	if calls != 1 {
		t.Fatalf("expected Activate on a previously interned atom to publish exactly once, got %d", calls)
	}
}

func TestAtomManagerExecuteQueryWrapsError(t *testing.T) {
	reg := NewRegistry()
	reg.MustDeclare("P", 1, Standard)
	bus := NewEventBus()
	boom := &stubDatabase{err: errTestQuery}
	atoms := NewAtomManager(boom, bus, nil)

	_, err := atoms.ExecuteQuery(context.Background(), &Query{})
	if err == nil {
		t.Fatal("expected ExecuteQuery to propagate the database error")
	}
	if err == errTestQuery {
		t.Fatal("expected ExecuteQuery to wrap the database error, got it bare")
	}
	if tag, ok := TagOf(err); !ok || tag != NotQueriable {
		t.Fatalf("expected the wrapped error to keep its cause's tag, got %v", err)
	}
}

var errTestQuery = newTaggedError(NotQueriable, "stub failure")
