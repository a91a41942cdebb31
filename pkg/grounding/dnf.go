package grounding

// Literal is an atom together with its polarity within a clause.
type Literal struct {
	Atom    Atom
	Negated bool
}

func (l Literal) String() string {
	if l.Negated {
		return "¬" + l.Atom.String()
	}
	return l.Atom.String()
}

// nnfNode is a formula tree restricted to {and, or} with signed-atom
// leaves, i.e. formula in negation normal form. It is an internal
// representation used only while reducing a Formula to DNF.
type nnfNode struct {
	op       Connective // And, Or, or AtomNode (leaf)
	literal  Literal    // valid iff op == AtomNode
	children []nnfNode  // valid iff op != AtomNode
}

// toNNF eliminates Implies/Equivalent and pushes negation down to the
// atom leaves, producing a tree of {And, Or} with signed-atom leaves.
// negated indicates whether the enclosing context negates this subformula.
func toNNF(f Formula, negated bool) nnfNode {
	switch f.Op {
	case AtomNode:
		return nnfNode{op: AtomNode, literal: Literal{Atom: f.Atom, Negated: negated}}
	case Not:
		return toNNF(f.Children[0], !negated)
	case And:
		left, right := toNNF(f.Children[0], negated), toNNF(f.Children[1], negated)
		if negated {
			// De Morgan: ¬(A ∧ B) = ¬A ∨ ¬B
			return nnfNode{op: Or, children: []nnfNode{left, right}}
		}
		return nnfNode{op: And, children: []nnfNode{left, right}}
	case Or:
		left, right := toNNF(f.Children[0], negated), toNNF(f.Children[1], negated)
		if negated {
			// De Morgan: ¬(A ∨ B) = ¬A ∧ ¬B
			return nnfNode{op: And, children: []nnfNode{left, right}}
		}
		return nnfNode{op: Or, children: []nnfNode{left, right}}
	case Implies:
		// A -> B  ==  ¬A ∨ B
		rewritten := Formula{Op: Or, Children: []Formula{NotF(f.Children[0]), f.Children[1]}}
		return toNNF(rewritten, negated)
	case Equivalent:
		// A <-> B  ==  (A ∧ B) ∨ (¬A ∧ ¬B)
		a, b := f.Children[0], f.Children[1]
		rewritten := Formula{Op: Or, Children: []Formula{
			{Op: And, Children: []Formula{a, b}},
			{Op: And, Children: []Formula{NotF(a), NotF(b)}},
		}}
		return toNNF(rewritten, negated)
	default:
		panic("grounding: unknown connective")
	}
}

// distributeDNF expands an NNF tree into disjunctive normal form: a slice
// of clauses, each clause a conjunction (slice) of literals.
func distributeDNF(n nnfNode) [][]Literal {
	switch n.op {
	case AtomNode:
		return [][]Literal{{n.literal}}
	case Or:
		var out [][]Literal
		for _, c := range n.children {
			out = append(out, distributeDNF(c)...)
		}
		return out
	case And:
		left := distributeDNF(n.children[0])
		right := distributeDNF(n.children[1])
		out := make([][]Literal, 0, len(left)*len(right))
		for _, lc := range left {
			for _, rc := range right {
				merged := make([]Literal, 0, len(lc)+len(rc))
				merged = append(merged, lc...)
				merged = append(merged, rc...)
				out = append(out, merged)
			}
		}
		return out
	default:
		panic("grounding: unknown connective in NNF tree")
	}
}

// negateAndNormalize produces ¬F and reduces it to DNF, returning the list
// of disjunctive clauses of ¬F.
func negateAndNormalize(f Formula) [][]Literal {
	nnf := toNNF(f, true)
	return distributeDNF(nnf)
}
