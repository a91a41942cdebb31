package memstore

import (
	"context"
	"testing"

	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

func TestExecuteQueryEquiJoin(t *testing.T) {
	reg := grounding.NewRegistry()
	friend := reg.MustDeclare("Friend", 2, grounding.Standard)
	likes := reg.MustDeclare("Likes", 2, grounding.Standard)

	store := New()
	read := grounding.Partition("read")
	mustAdd(t, store, friend, read, "alice", "bob")
	mustAdd(t, store, friend, read, "bob", "carol")
	mustAdd(t, store, likes, read, "alice", "tea")
	mustAdd(t, store, likes, read, "bob", "coffee")

	db, err := store.OpenDatabase(context.Background(), grounding.Partition("write"), []grounding.Partition{read}, nil)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	x, y, z := grounding.NewVariable("X"), grounding.NewVariable("Y"), grounding.NewVariable("Z")
	q := &grounding.Query{
		Literals:  []grounding.Atom{grounding.NewAtom(friend, x, y), grounding.NewAtom(likes, x, z)},
		Variables: []string{"X", "Y", "Z"},
	}

	rows, err := db.ExecuteQuery(context.Background(), q)
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 joined rows, got %d: %v", len(rows), rows)
	}
}

func TestExecuteQueryRespectsPartitionVisibility(t *testing.T) {
	reg := grounding.NewRegistry()
	p := reg.MustDeclare("P", 1, grounding.Standard)

	store := New()
	mustAdd(t, store, p, grounding.Partition("hidden"), "x")

	db, err := store.OpenDatabase(context.Background(), grounding.Partition("write"), []grounding.Partition{"visible"}, nil)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	x := grounding.NewVariable("X")
	q := &grounding.Query{Literals: []grounding.Atom{grounding.NewAtom(p, x)}, Variables: []string{"X"}}
	rows, err := db.ExecuteQuery(context.Background(), q)
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected facts in an unread partition to be invisible, got %v", rows)
	}
}

func TestExecuteQueryGroundConstantSelection(t *testing.T) {
	reg := grounding.NewRegistry()
	p := reg.MustDeclare("P", 1, grounding.Standard)

	store := New()
	read := grounding.Partition("read")
	mustAdd(t, store, p, read, "a")
	mustAdd(t, store, p, read, "b")

	db, err := store.OpenDatabase(context.Background(), grounding.Partition("write"), []grounding.Partition{read}, nil)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	q := &grounding.Query{Literals: []grounding.Atom{grounding.NewAtom(p, grounding.Str("b"))}}
	rows, err := db.ExecuteQuery(context.Background(), q)
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row matching the constant selection, got %d", len(rows))
	}
}

func TestExecuteQueryPartialBindingRestrictsResults(t *testing.T) {
	reg := grounding.NewRegistry()
	p := reg.MustDeclare("P", 1, grounding.Standard)

	store := New()
	read := grounding.Partition("read")
	mustAdd(t, store, p, read, "a")
	mustAdd(t, store, p, read, "b")

	db, err := store.OpenDatabase(context.Background(), grounding.Partition("write"), []grounding.Partition{read}, nil)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	x := grounding.NewVariable("X")
	q := &grounding.Query{
		Literals:  []grounding.Atom{grounding.NewAtom(p, x)},
		Variables: []string{"X"},
		Partial:   map[string]grounding.GroundTerm{"X": grounding.Str("a")},
	}
	rows, err := db.ExecuteQuery(context.Background(), q)
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}
	// Partial-bound variables are already known to the caller and are not
	// re-projected into the result row (see RuleKernel.groundRow, which
	// consults the activation binding before the row); only the restriction
	// to matching facts is observable here.
	if len(rows) != 1 {
		t.Fatalf("expected the partial binding to restrict the join to exactly 1 row, got %d: %v", len(rows), rows)
	}
}

func mustAdd(t *testing.T, store *Store, pred grounding.Predicate, partition grounding.Partition, values ...string) {
	t.Helper()
	terms := make([]grounding.GroundTerm, len(values))
	for i, v := range values {
		terms[i] = grounding.Str(v)
	}
	if err := store.AddFact(pred, terms, partition, 1.0); err != nil {
		t.Fatalf("AddFact failed: %v", err)
	}
}
