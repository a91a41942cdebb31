package memstore

import (
	"context"
	"sync"

	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

// Database is a scoped acquisition of a Store: a pinned write partition, a
// pinned set of read partitions, and the closed-world predicate set it was
// opened with, which ExecuteQuery does not consult. It implements
// grounding.Database.
type Database struct {
	store  *Store
	write  grounding.Partition
	reads  []grounding.Partition
	closed grounding.ClosedPredicates

	closeOnce sync.Once
}

// Close releases the database's partition reservation. Safe to call more
// than once, so deferred releases stay correct on every exit path.
func (db *Database) Close() error {
	db.closeOnce.Do(func() { db.store.release(db) })
	return nil
}

// ExecuteQuery implements grounding.Database. It evaluates q's positive
// literals as a left-deep conjunctive join over the rows visible in this
// database's read partitions, applying q.Partial as extra equality
// selections on every literal as it is joined.
func (db *Database) ExecuteQuery(_ context.Context, q *grounding.Query) (grounding.ResultList, error) {
	db.store.mu.Lock()
	defer db.store.mu.Unlock()

	results := []grounding.ResultRow{{}}
	for _, lit := range q.Literals {
		results = db.joinLiteral(results, lit, q.Partial)
		if len(results) == 0 {
			break
		}
	}
	out := make(grounding.ResultList, 0, len(results))
	for _, r := range results {
		out = append(out, r)
	}
	return out, nil
}

// joinLiteral extends every row already accumulated in prior with every way
// lit's relation can bind lit's variable arguments consistently with that
// row, restricted to this database's visible partitions and to partial's
// equality selections on any variable lit mentions.
func (db *Database) joinLiteral(prior []grounding.ResultRow, lit grounding.Atom, partial map[string]grounding.GroundTerm) []grounding.ResultRow {
	rel, ok := db.store.relations[lit.Predicate.Name]
	if !ok {
		return nil
	}

	var out []grounding.ResultRow
	for _, row := range prior {
		for _, rowIdx := range db.candidateRows(rel, lit, row, partial) {
			fact := rel.rows[rowIdx]
			if !db.inReadPartitions(fact.partition) {
				continue
			}
			binding, ok := matchLiteral(lit, fact.values, row, partial)
			if !ok {
				continue
			}
			merged := make(grounding.ResultRow, len(row)+len(binding))
			for k, v := range row {
				merged[k] = v
			}
			for k, v := range binding {
				merged[k] = v
			}
			out = append(out, merged)
		}
	}
	return out
}

// candidateRows narrows the relation's row set using rel's column index
// whenever lit carries an already-known value at some position (a
// constant, a variable already bound by an earlier literal in row, or a
// variable fixed by partial), falling back to a full scan only when no
// argument is yet known; the column index makes a shared-variable
// equi-join a lookup instead of a scan.
func (db *Database) candidateRows(rel *relation, lit grounding.Atom, row grounding.ResultRow, partial map[string]grounding.GroundTerm) []int {
	for col, arg := range lit.Args {
		var known grounding.GroundTerm
		var have bool
		switch t := arg.(type) {
		case grounding.GroundTerm:
			known, have = t, true
		case grounding.Variable:
			if v, ok := partial[t.Name]; ok {
				known, have = v, true
			} else if v, ok := row[t.Name]; ok {
				known, have = v, true
			}
		}
		if have {
			return rel.candidateRows(col, known)
		}
	}
	out := make([]int, len(rel.rows))
	for i := range out {
		out[i] = i
	}
	return out
}

// inReadPartitions reports whether p is one of this database's pinned
// read partitions; the write partition is never read from.
func (db *Database) inReadPartitions(p grounding.Partition) bool {
	for _, r := range db.reads {
		if r == p {
			return true
		}
	}
	return false
}

// matchLiteral attempts to unify lit's arguments against fact, given the
// bindings already fixed by row (earlier literals in the same query) and
// partial (the activation's fixed assignment, which must agree with
// anything fact supplies). It returns the new bindings this fact
// contributes, or ok=false if fact is inconsistent with what is already
// bound.
func matchLiteral(lit grounding.Atom, fact []grounding.GroundTerm, row grounding.ResultRow, partial map[string]grounding.GroundTerm) (grounding.ResultRow, bool) {
	binding := make(grounding.ResultRow)
	for i, arg := range lit.Args {
		switch t := arg.(type) {
		case grounding.GroundTerm:
			if !t.Equal(fact[i]) {
				return nil, false
			}
		case grounding.Variable:
			if existing, ok := row[t.Name]; ok {
				if !existing.Equal(fact[i]) {
					return nil, false
				}
				continue
			}
			if fixed, ok := partial[t.Name]; ok {
				if !fixed.Equal(fact[i]) {
					return nil, false
				}
				continue
			}
			if existing, ok := binding[t.Name]; ok {
				if !existing.Equal(fact[i]) {
					return nil, false
				}
				continue
			}
			binding[t.Name] = fact[i]
		default:
			return nil, false
		}
	}
	return binding, true
}
