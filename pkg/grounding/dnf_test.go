package grounding

import "testing"

func TestNegateAndNormalizeImplication(t *testing.T) {
	reg := NewRegistry()
	p := reg.MustDeclare("P", 1, Standard)
	q := reg.MustDeclare("Q", 1, Standard)
	x := NewVariable("X")

	f := ImpliesF(Lit(NewAtom(p, x)), Lit(NewAtom(q, x)))
	clauses := negateAndNormalize(f)
	if len(clauses) != 1 {
		t.Fatalf("expected a single clause, got %d", len(clauses))
	}
	clause := clauses[0]
	if len(clause) != 2 {
		t.Fatalf("expected 2 literals, got %d", len(clause))
	}
	if clause[0].Negated || clause[0].Atom.Predicate != p {
		t.Errorf("expected first literal to be positive P, got %+v", clause[0])
	}
	if !clause[1].Negated || clause[1].Atom.Predicate != q {
		t.Errorf("expected second literal to be negative Q, got %+v", clause[1])
	}
}

func TestNegateAndNormalizeDisjunctionOfNegations(t *testing.T) {
	reg := NewRegistry()
	spam := reg.MustDeclare("Spam", 1, Standard)
	important := reg.MustDeclare("Important", 1, Standard)
	x := NewVariable("X")

	f := OrF(NotF(Lit(NewAtom(spam, x))), NotF(Lit(NewAtom(important, x))))
	clauses := negateAndNormalize(f)
	if len(clauses) != 1 {
		t.Fatalf("expected a single clause, got %d", len(clauses))
	}
	clause := clauses[0]
	if len(clause) != 2 {
		t.Fatalf("expected 2 literals, got %d", len(clause))
	}
	for _, lit := range clause {
		if lit.Negated {
			t.Errorf("expected both literals positive after double negation, got %+v", lit)
		}
	}
}

func TestNegateAndNormalizeDistributesOverDisjunction(t *testing.T) {
	reg := NewRegistry()
	p := reg.MustDeclare("P", 1, Standard)
	q := reg.MustDeclare("Q", 1, Standard)
	r := reg.MustDeclare("R", 1, Standard)
	x := NewVariable("X")

	// Not(P) => a disjunction after negation: Not(Not(P ∧ (Q ∨ R))) = P ∧ (Q ∨ R)
	// distributes to two clauses: P∧Q, P∧R.
	f := NotF(AndF(Lit(NewAtom(p, x)), OrF(Lit(NewAtom(q, x)), Lit(NewAtom(r, x)))))
	clauses := negateAndNormalize(f)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses after distribution, got %d", len(clauses))
	}
}
