package grounding

import "sync"

// LogicalInstantiator builds plain GroundRules with no weight attached: a
// hard constraint, implicitly infinite weight, whose every grounding must
// hold.
type LogicalInstantiator struct{}

// GroundInstance implements Instantiator.
func (LogicalInstantiator) GroundInstance(pos, neg []*GroundAtom) *GroundRule {
	return NewGroundRule(pos, neg)
}

// WeightedGroundRule extends GroundRule with the soft-constraint fields a
// downstream optimizer consumes: a non-negative weight and a flag selecting
// between squared and linear distance-to-satisfaction conventions.
type WeightedGroundRule struct {
	*GroundRule
	Weight  float64
	Squared bool
}

// WeightedInstantiator builds WeightedGroundRules, stamping every instance
// it creates with the kernel's configured weight and distance convention.
// The RuleKernel/GroundKernelStore contract only ever deals in
// *GroundRule, so WeightedInstantiator keeps its own side table from
// the embedded *GroundRule back to its *WeightedGroundRule wrapper; callers
// that need Weight/Squared look it up via Lookup instead of type-asserting
// the store's *GroundRule.
type WeightedInstantiator struct {
	Weight  float64
	Squared bool

	mu      sync.Mutex
	wrapped map[*GroundRule]*WeightedGroundRule
}

// GroundInstance implements Instantiator.
func (w *WeightedInstantiator) GroundInstance(pos, neg []*GroundAtom) *GroundRule {
	wg := &WeightedGroundRule{GroundRule: NewGroundRule(pos, neg), Weight: w.Weight, Squared: w.Squared}
	w.mu.Lock()
	if w.wrapped == nil {
		w.wrapped = make(map[*GroundRule]*WeightedGroundRule)
	}
	w.wrapped[wg.GroundRule] = wg
	w.mu.Unlock()
	return wg.GroundRule
}

// Lookup returns the WeightedGroundRule wrapper for a *GroundRule this
// instantiator produced, if any.
func (w *WeightedInstantiator) Lookup(rule *GroundRule) (*WeightedGroundRule, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	wg, ok := w.wrapped[rule]
	return wg, ok
}
