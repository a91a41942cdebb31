package grounding

// DNFClause is the canonical, validated form used for grounding: the
// single disjunctive clause obtained by negating a rule's formula and
// reducing to DNF.
//
// PosLiterals and NegLiterals are the clause's literals partitioned by
// polarity as they appear in the *stored* (post-negation) clause — i.e.
// PosLiterals are un-negated atoms of ¬F's single DNF clause, NegLiterals
// are negated atoms of that same clause. PosLiterals over Standard
// predicates are exactly the literals that are queried against the data
// store; see the binding-invariant reconciliation note on checkBinding.
type DNFClause struct {
	PosLiterals []Atom
	NegLiterals []Atom
	Variables   []string // every variable in the clause, first-occurrence order
}

// NewClause validates a formula and reduces it to a DNFClause. It returns
// a *TaggedError with one of MultipleClauses,
// UnboundVariable, GroundFormula, or NotQueriable on rejection.
func NewClause(f Formula) (*DNFClause, error) {
	vars := f.variables()
	if len(vars) == 0 {
		return nil, newTaggedError(GroundFormula, "formula has no variables")
	}

	clauses := negateAndNormalize(f)
	if len(clauses) != 1 {
		return nil, newTaggedError(MultipleClauses, "negated formula does not reduce to a single disjunctive clause")
	}

	var pos, neg []Atom
	for _, lit := range clauses[0] {
		if lit.Negated {
			neg = append(neg, lit.Atom)
		} else {
			pos = append(pos, lit.Atom)
		}
	}

	clause := &DNFClause{PosLiterals: pos, NegLiterals: neg, Variables: vars}

	if err := clause.checkBinding(); err != nil {
		return nil, err
	}
	if err := clause.checkQueriable(); err != nil {
		return nil, err
	}

	return clause, nil
}

// checkBinding enforces the binding invariant: every variable in the
// clause must occur as an argument of at least one literal that is
// enumerable via the data store. In the stored (post-negation) clause
// those are the positive literals over Standard predicates — they are
// what the query selects on, so only they give a variable a finite,
// enumerable domain.
func (c *DNFClause) checkBinding() error {
	bound := make(map[string]bool)
	for _, a := range c.PosLiterals {
		if a.Predicate.Kind != Standard {
			continue
		}
		for _, v := range a.Variables() {
			bound[v] = true
		}
	}
	for _, v := range c.Variables {
		if !bound[v] {
			return newTaggedError(UnboundVariable, "variable "+v+" is never bound by an enumerable positive literal over a Standard predicate")
		}
	}
	return nil
}

// checkQueriable enforces that every positive literal is over a Standard
// predicate (Derived predicates cannot be queried directly),
// and that there is at least one positive literal to query at all.
func (c *DNFClause) checkQueriable() error {
	if len(c.PosLiterals) == 0 {
		return newTaggedError(NotQueriable, "clause has no positive literals to form a query from")
	}
	for _, a := range c.PosLiterals {
		if a.Predicate.Kind != Standard {
			return newTaggedError(NotQueriable, "positive literal over derived predicate "+a.Predicate.String()+" cannot be queried directly")
		}
	}
	return nil
}
