package grounding

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// AtomManager is the grounder's sole point of contact with the data store
// and the canonical ground-atom table. It interns GroundAtoms
// so repeated calls describing the same (predicate, values) identity return
// the same pointer, and it tracks atom activation state so newly activated
// atoms are published to the event bus exactly once. The manager is the
// single owner of the interning table; everything else reads canonical
// atoms through it.
type AtomManager struct {
	db  Database
	bus *EventBus
	log *logrus.Entry

	mu     sync.Mutex
	byKey  map[uint64][]*GroundAtom
	active map[uint64]bool

	group singleflight.Group
}

// NewAtomManager constructs an atom manager bound to a single Database
// acquisition and event bus. log may be nil, in which case diagnostics are
// discarded.
func NewAtomManager(db Database, bus *EventBus, log *logrus.Entry) *AtomManager {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = logrus.NewEntry(discard)
	}
	return &AtomManager{
		db:     db,
		bus:    bus,
		log:    log,
		byKey:  make(map[uint64][]*GroundAtom),
		active: make(map[uint64]bool),
	}
}

// ExecuteQuery runs q against the bound database, logging the row count at
// debug level for diagnostics.
func (m *AtomManager) ExecuteQuery(ctx context.Context, q *Query) (ResultList, error) {
	rows, err := m.db.ExecuteQuery(ctx, q)
	if err != nil {
		return nil, QueryError("execute_query", err)
	}
	m.log.WithFields(logrus.Fields{
		"literals": len(q.Literals),
		"rows":     len(rows),
	}).Debug("executed grounding query")
	return rows, nil
}

// GetAtom is the interning constructor: returns the canonical GroundAtom
// for (predicate, args), creating it on first observation. Concurrent
// calls describing the same identity are collapsed onto a single
// allocation via singleflight, so callers racing to intern the same atom
// never see two distinct pointers for it. Interning never changes an
// atom's activation state: only Activate does, so an atom the grounder
// merely observed while expanding rows can still fire its own activation
// later.
func (m *AtomManager) GetAtom(pred Predicate, args []GroundTerm) *GroundAtom {
	candidate := &GroundAtom{Predicate: pred, Values: args}
	key := candidate.identityKey()

	v, _, _ := m.group.Do(strconv.FormatUint(key, 10)+groupKeySalt(pred), func() (interface{}, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, existing := range m.byKey[key] {
			if equalGroundAtom(existing, candidate) {
				return existing, nil
			}
		}
		m.byKey[key] = append(m.byKey[key], candidate)
		return candidate, nil
	})

	return v.(*GroundAtom)
}

// groupKeySalt guards against the (vanishingly rare) case of an
// identityKey collision across distinct predicates colliding inside
// singleflight's string-keyed group, by folding the predicate name into
// the group key alongside the hash.
func groupKeySalt(pred Predicate) string {
	var b strings.Builder
	b.WriteByte('|')
	b.WriteString(pred.Name)
	return b.String()
}

// markActive records atom as activated if it was not already, returning
// whether it was already active before this call.
func (m *AtomManager) markActive(atom *GroundAtom) bool {
	key := atom.identityKey()
	m.mu.Lock()
	wasActive := m.active[key]
	m.active[key] = true
	m.mu.Unlock()
	return wasActive
}

// Activate marks atom active (if not already) and, on a fresh activation,
// publishes an AtomActivated event so every registered rule kernel's
// activation handler runs.
func (m *AtomManager) Activate(atom *GroundAtom) {
	if m.markActive(atom) {
		return
	}
	m.log.WithField("atom", atom.String()).Debug("atom activated")
	m.bus.Publish(AtomActivated, atom)
}

// Register subscribes a rule kernel's handler to atom-activation events for
// clause.
func (m *AtomManager) Register(clause *DNFClause, handler ActivationHandler) *registrationToken {
	return m.bus.Register(clause, handler, AtomActivated)
}

// Unregister removes a subscription registered via Register.
func (m *AtomManager) Unregister(tok *registrationToken) {
	m.bus.Unregister(tok)
}
