package grounding

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Instantiator builds a concrete GroundRule from a clause's literal lists.
// pos and neg are transient buffers owned by the grounder; implementations
// must copy any references they retain — NewGroundRule already does this,
// so most implementations simply delegate to it after attaching their own
// domain-specific fields (see logicrule.go).
type Instantiator interface {
	GroundInstance(pos, neg []*GroundAtom) *GroundRule
}

// RuleKernel is the grounder for a single validated clause. How two ground
// literal lists become a GroundRule is a capability supplied at
// construction (the Instantiator), not a subclassing surface; the kernel
// itself has no further polymorphism.
//
// A RuleKernel's own methods (GroundAll, onAtomActivated) must not be
// re-entered concurrently. The EventBus enforces this for event-driven
// activation, and callers must not call GroundAll concurrently with itself
// on the same kernel.
type RuleKernel struct {
	Clause *DNFClause
	query  *Query
	inst   Instantiator
	store  *GroundKernelStore
	atoms  *AtomManager
	log    *logrus.Entry

	posBuf []*GroundAtom
	negBuf []*GroundAtom

	regToken *registrationToken
}

// NewRuleKernel builds and registers a rule kernel. f is validated into a
// DNFClause via NewClause; construction errors from that step are returned
// unchanged and no kernel is created or registered. log may be nil, in
// which case diagnostics are discarded.
func NewRuleKernel(f Formula, inst Instantiator, store *GroundKernelStore, atoms *AtomManager, log *logrus.Entry) (*RuleKernel, error) {
	clause, err := NewClause(f)
	if err != nil {
		return nil, err
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = logrus.NewEntry(discard)
	}
	k := &RuleKernel{
		Clause: clause,
		query:  NewQuery(clause),
		inst:   inst,
		store:  store,
		atoms:  atoms,
		log:    log,
	}
	k.regToken = atoms.Register(clause, k.onAtomActivated)
	return k, nil
}

// Close unregisters the kernel from activation events. Kernels are
// identity-stable for the lifetime of their registration: there is no
// Clone, and duplicating one by hand would break the per-kernel
// serialization the event bus provides.
func (k *RuleKernel) Close() {
	k.atoms.Unregister(k.regToken)
}

// GroundAll enumerates every ground rule the clause induces against the
// atom manager's current view and inserts each into the ground-kernel
// store, in store-row order.
func (k *RuleKernel) GroundAll(ctx context.Context) error {
	rows, err := k.atoms.ExecuteQuery(ctx, k.query)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := k.groundRow(row, nil); err != nil {
			return err
		}
	}
	return nil
}

// groundRow expands one result row (optionally completing a prior partial
// assignment v) into a ground rule and merges it into the store. v, when
// non-nil, is consulted before row so an activating atom's constants win
// over whatever the store would otherwise report.
func (k *RuleKernel) groundRow(row ResultRow, v map[string]GroundTerm) error {
	k.posBuf = k.posBuf[:0]
	k.negBuf = k.negBuf[:0]

	fallback := rowAsGroundTerms(row)

	for _, lit := range k.Clause.PosLiterals {
		atom, err := k.substituteAtom(lit, v, fallback)
		if err != nil {
			return err
		}
		k.posBuf = append(k.posBuf, atom)
	}
	for _, lit := range k.Clause.NegLiterals {
		atom, err := k.substituteAtom(lit, v, fallback)
		if err != nil {
			return err
		}
		k.negBuf = append(k.negBuf, atom)
	}

	candidate := k.inst.GroundInstance(k.posBuf, k.negBuf)
	k.store.MergeOrInsert(candidate)
	return nil
}

// substituteAtom grounds a clause literal's arguments via v (if supplied,
// consulted first) then row, interning the result through the atom
// manager so ground atoms stay canonical across the kernel and across
// other kernels sharing the same manager.
func (k *RuleKernel) substituteAtom(lit Atom, v map[string]GroundTerm, fallback map[string]GroundTerm) (*GroundAtom, error) {
	values, err := lit.Substitute(v, fallback)
	if err != nil {
		return nil, err
	}
	return k.atoms.GetAtom(lit.Predicate, values), nil
}

func rowAsGroundTerms(row ResultRow) map[string]GroundTerm {
	out := make(map[string]GroundTerm, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// onAtomActivated produces exactly the ground rules newly enabled by a's
// activation, and no others: every unification of a with a clause literal
// restricts the query to groundings that use a at that position.
func (k *RuleKernel) onAtomActivated(a *GroundAtom) {
	assignments := k.Clause.TraceAssignments(a)
	if len(assignments) == 0 {
		return
	}
	ctx := context.Background()
	for _, ta := range assignments {
		restricted := k.query.Bind(ta.Binding)
		rows, err := k.atoms.ExecuteQuery(ctx, restricted)
		if err != nil {
			k.log.WithError(err).WithField("atom", a.String()).Error("activation query failed")
			continue
		}
		for _, row := range rows {
			if err := k.groundRow(row, ta.Binding); err != nil {
				k.log.WithError(err).WithField("atom", a.String()).Error("activation grounding failed")
			}
		}
	}
}
