package grounding

// Query is the relational query form of a clause's positive literals: a
// conjunction of selections over Standard-predicate relations, with shared
// variables implying equi-joins and constants implying selection
// predicates. The data store executes a Query unchanged for every
// grounding pass of the clause that produced it.
type Query struct {
	Literals  []Atom                // conjuncts, in clause order
	Variables []string              // projected columns, first-occurrence order, stable
	Partial   map[string]GroundTerm // extra equality selections; nil for a full query
}

// NewQuery builds the query formula for a validated clause: the conjunction
// of its positive literals, projecting every clause variable exactly once.
func NewQuery(c *DNFClause) *Query {
	return &Query{Literals: c.PosLiterals, Variables: c.Variables}
}

// Bind returns a copy of q with v applied as additional equality
// selections, the partial-grounding step of event-driven activation. The
// receiver is left unmodified so the same Query can be reused across
// multiple trace assignments.
func (q *Query) Bind(v map[string]GroundTerm) *Query {
	merged := make(map[string]GroundTerm, len(q.Partial)+len(v))
	for k, val := range q.Partial {
		merged[k] = val
	}
	for k, val := range v {
		merged[k] = val
	}
	return &Query{Literals: q.Literals, Variables: q.Variables, Partial: merged}
}

// ResultRow maps the query's variables to the ground terms assigned to them
// by one result row.
type ResultRow map[string]GroundTerm

// ResultList is the ordered set of rows an AtomManager returns from
// executing a Query. Order, when the store provides a deterministic one, is
// preserved through to the ground rules it produces.
type ResultList []ResultRow

// TraceAssignment is one way a newly activated ground atom can unify with a
// literal position in a clause, yielding the partial variable binding that
// unification fixes.
type TraceAssignment struct {
	LiteralIndex int  // index into PosLiterals, or NegLiterals when Negated
	Negated      bool // the matched literal is one of the clause's negative literals
	Binding      map[string]GroundTerm
}

// TraceAssignments enumerates every way a GroundAtom can unify with a
// literal of the clause, positive or negative, whose predicate matches a's
// predicate. A literal position unifies with a iff every already-ground
// argument of the literal equals the corresponding value in a and repeated
// variables receive consistent values; unifying variable arguments are
// bound to a's values at those positions. Negative literals participate
// too: a rule newly enabled by a's activation may use a in any literal
// position, so every position is a candidate restriction of the query.
func (c *DNFClause) TraceAssignments(a *GroundAtom) []TraceAssignment {
	var out []TraceAssignment
	for i, lit := range c.PosLiterals {
		if binding, ok := unifyLiteral(lit, a); ok {
			out = append(out, TraceAssignment{LiteralIndex: i, Binding: binding})
		}
	}
	for i, lit := range c.NegLiterals {
		if binding, ok := unifyLiteral(lit, a); ok {
			out = append(out, TraceAssignment{LiteralIndex: i, Negated: true, Binding: binding})
		}
	}
	return out
}

func unifyLiteral(lit Atom, a *GroundAtom) (map[string]GroundTerm, bool) {
	if lit.Predicate != a.Predicate {
		return nil, false
	}
	binding := make(map[string]GroundTerm, len(lit.Args))
	for j, arg := range lit.Args {
		switch t := arg.(type) {
		case Variable:
			if prior, seen := binding[t.Name]; seen {
				if !prior.Equal(a.Values[j]) {
					return nil, false
				}
				continue
			}
			binding[t.Name] = a.Values[j]
		case GroundTerm:
			if !t.Equal(a.Values[j]) {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return binding, true
}
