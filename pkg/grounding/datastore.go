package grounding

import "context"

// Partition is an opaque identifier segregating rows in the data store.
// Concrete stores (internal/memstore, internal/sqlstore)
// are free to back it with whatever representation suits them; the
// grounder only ever compares partitions for equality.
type Partition string

// ClosedPredicates names the predicates a Database is opened to treat under
// the closed-world assumption; nil names none. The stores in this module
// (internal/memstore, internal/sqlstore) record it on the Database but do
// not consult it when executing queries.
type ClosedPredicates map[string]bool

// DataStore is the partitioned relational store the grounder queries
// against. A Standard predicate corresponds to one
// relation with columns (arg_1..arg_k, partition_id, value, confidence);
// the grounder only ever selects on argument columns, joins on
// shared-variable columns, and restricts by partition_id.
type DataStore interface {
	// OpenDatabase acquires a scoped view over one write partition and a set
	// of read partitions, enforcing the exclusivity invariant: a write
	// partition must not collide with another currently open database's
	// read or write partitions. The returned Database must be released via
	// Close on every exit path, including error.
	OpenDatabase(ctx context.Context, write Partition, reads []Partition, closed ClosedPredicates) (Database, error)
}

// Database is a scoped acquisition of a DataStore returned by OpenDatabase.
// All query execution happens through it so the store can track which
// partitions are in use for the exclusivity invariant.
type Database interface {
	// ExecuteQuery runs q against the databases's pinned read partitions,
	// materializing every matching row. When q.Partial is non-nil, its
	// bindings are applied as additional equality selections.
	ExecuteQuery(ctx context.Context, q *Query) (ResultList, error)

	// Close releases the database's partition reservation. It is safe to
	// call Close more than once.
	Close() error
}
