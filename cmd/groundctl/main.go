// Command groundctl grounds a small example rule set against an in-memory
// data store and prints the resulting ground rules. It exists to exercise
// pkg/grounding end-to-end, not as a general-purpose CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gitrdm/rulegrounder/internal/memstore"
	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "groundctl:", err)
		os.Exit(1)
	}
}

// run grounds a transitive-likes rule, Friend(X,Y) ∧ Likes(X,Z) →
// Likes(Y,Z), over a small store of friend and likes facts.
func run() error {
	log := logrus.NewEntry(logrus.StandardLogger())

	registry := grounding.NewRegistry()
	friend := registry.MustDeclare("Friend", 2, grounding.Standard)
	likes := registry.MustDeclare("Likes", 2, grounding.Standard)

	store := memstore.New()
	const partition = grounding.Partition("default")
	facts := []struct {
		pred grounding.Predicate
		a, b string
	}{
		{friend, "alice", "bob"},
		{friend, "bob", "carol"},
		{likes, "alice", "tea"},
		{likes, "bob", "coffee"},
	}
	for _, f := range facts {
		if err := store.AddFact(f.pred, []grounding.GroundTerm{grounding.Str(f.a), grounding.Str(f.b)}, partition, 1.0); err != nil {
			return err
		}
	}

	ctx := context.Background()
	db, err := store.OpenDatabase(ctx, grounding.Partition("write"), []grounding.Partition{partition}, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	bus := grounding.NewEventBus()
	atoms := grounding.NewAtomManager(db, bus, log)
	rules := grounding.NewGroundKernelStore()

	x, y, z := grounding.NewVariable("X"), grounding.NewVariable("Y"), grounding.NewVariable("Z")
	formula := grounding.ImpliesF(
		grounding.AndF(
			grounding.Lit(grounding.NewAtom(friend, x, y)),
			grounding.Lit(grounding.NewAtom(likes, x, z)),
		),
		grounding.Lit(grounding.NewAtom(likes, y, z)),
	)

	kernel, err := grounding.NewRuleKernel(formula, grounding.LogicalInstantiator{}, rules, atoms, log)
	if err != nil {
		return err
	}
	defer kernel.Close()

	if err := kernel.GroundAll(ctx); err != nil {
		return err
	}

	for _, rule := range rules.All() {
		fmt.Println(describeGroundRule(rule))
	}
	return nil
}

func describeGroundRule(rule *grounding.GroundRule) string {
	s := "rule("
	for i, a := range rule.Pos {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	for _, a := range rule.Neg {
		s += ", ¬" + a.String()
	}
	s += fmt.Sprintf(") x%d", rule.Multiplicity)
	return s
}
