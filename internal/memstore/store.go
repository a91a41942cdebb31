package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

// Store is an in-memory grounding.DataStore. It owns one relation per
// Standard predicate and an explicit registry of currently open
// Databases, used to enforce the partition-exclusivity invariant; the
// grounder itself never touches the registry.
type Store struct {
	mu        sync.Mutex
	relations map[string]*relation

	openMu sync.Mutex
	open   map[*Database]struct{}
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		relations: make(map[string]*relation),
		open:      make(map[*Database]struct{}),
	}
}

// AddFact inserts a ground fact for pred into partition, with the given
// confidence. This is the store's own write path; the grounder never
// writes, so callers outside it (a test, the example program) populate
// the store this way.
func (s *Store) AddFact(pred grounding.Predicate, values []grounding.GroundTerm, partition grounding.Partition, confidence float64) error {
	if len(values) != pred.Arity {
		return fmt.Errorf("memstore: predicate %s expects %d values, got %d", pred, pred.Arity, len(values))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rel, ok := s.relations[pred.Name]
	if !ok {
		rel = newRelation(pred.Arity)
		s.relations[pred.Name] = rel
	}
	rel.add(values, partition, confidence)
	return nil
}

// OpenDatabase implements grounding.DataStore. It enforces the exclusivity
// invariant: the requested write partition must not collide with the
// write or read partitions of any other currently open Database, checked
// against the registry under a dedicated lock disjoint from the relation
// data lock so queries on other open databases are never blocked by the
// exclusivity check itself.
func (s *Store) OpenDatabase(_ context.Context, write grounding.Partition, reads []grounding.Partition, closed grounding.ClosedPredicates) (grounding.Database, error) {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	for existing := range s.open {
		if existing.write == write {
			return nil, fmt.Errorf("memstore: write partition %q already held by an open database", write)
		}
		for _, r := range existing.reads {
			if r == write {
				return nil, fmt.Errorf("memstore: write partition %q is being read by another open database", write)
			}
		}
		for _, r := range reads {
			if r == existing.write {
				return nil, fmt.Errorf("memstore: requested read partition %q is the write partition of another open database", r)
			}
		}
	}

	db := &Database{store: s, write: write, reads: reads, closed: closed}
	s.open[db] = struct{}{}
	return db, nil
}

func (s *Store) release(db *Database) {
	s.openMu.Lock()
	delete(s.open, db)
	s.openMu.Unlock()
}
