// Package memstore is an in-memory grounding.DataStore: relations hold an
// append-only fact table plus a per-column value index, and the store as
// a whole is protected by a single mutex. The grounder never branches or
// backtracks a store, so no snapshotting is needed.
package memstore

import (
	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

// row is one fact in a relation: a ground tuple tagged with the partition
// it belongs to and an optional confidence value.
type row struct {
	values     []grounding.GroundTerm
	partition  grounding.Partition
	confidence float64
}

// columnIndex maps a column's value to the row indexes that carry it.
// GroundTerm is a plain struct of comparable fields (see
// pkg/grounding/term.go) so it can be used directly as a map key.
type columnIndex map[grounding.GroundTerm][]int

// relation holds every fact ever added for one Standard predicate, indexed
// per-column for equality selections and equi-joins.
type relation struct {
	arity   int
	rows    []row
	columns []columnIndex // len == arity
}

func newRelation(arity int) *relation {
	cols := make([]columnIndex, arity)
	for i := range cols {
		cols[i] = make(columnIndex)
	}
	return &relation{arity: arity, columns: cols}
}

// add appends a fact, indexing each column. Facts are not deduplicated by
// the relation itself: a predicate may legitimately hold the same tuple in
// two different partitions, and the grounder's own merge-or-insert is what
// deduplicates ground rules, not the store.
func (r *relation) add(values []grounding.GroundTerm, partition grounding.Partition, confidence float64) {
	idx := len(r.rows)
	r.rows = append(r.rows, row{values: values, partition: partition, confidence: confidence})
	for col, v := range values {
		r.columns[col][v] = append(r.columns[col][v], idx)
	}
}

// candidateRows returns the row indexes that could possibly satisfy a
// selection on col == value, using the column index when available and
// falling back to a full scan otherwise (every column is indexed here, so
// the fallback path is unreachable in practice but kept for safety if a
// relation is ever constructed with fewer indexed columns than its arity).
func (r *relation) candidateRows(col int, value grounding.GroundTerm) []int {
	if col < len(r.columns) {
		return r.columns[col][value]
	}
	var out []int
	for i, rw := range r.rows {
		if rw.values[col].Equal(value) {
			out = append(out, i)
		}
	}
	return out
}
