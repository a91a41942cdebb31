package sqlstore

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

// Store is a grounding.DataStore backed by a single SQLite database file
// (or ":memory:") accessed through database/sql. Schema is created lazily,
// one table per Standard predicate, the first time a fact for that
// predicate is recorded.
type Store struct {
	db  *sql.DB
	log *logrus.Entry

	schemaMu sync.Mutex
	tables   map[string]bool

	openMu sync.Mutex
	open   map[*Database]struct{}
}

// Open opens (creating if absent) a SQLite database at dsn — a file path,
// or ":memory:" for an ephemeral store, matching the modernc.org/sqlite
// driver's DSN conventions.
func Open(dsn string, log *logrus.Entry) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: opening database")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{db: db, log: log, tables: make(map[string]bool), open: make(map[*Database]struct{})}, nil
}

// Close closes the underlying database/sql connection pool. Registered
// Databases must already be closed; this is the final teardown step for
// the whole Store.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureTable(ctx context.Context, pred grounding.Predicate) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.tables[pred.Name] {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, createTableSQL(pred.Name, pred.Arity)); err != nil {
		return errors.Wrapf(err, "sqlstore: creating table for %s", pred)
	}
	for _, stmt := range indexSQL(pred.Name, pred.Arity) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "sqlstore: indexing table for %s", pred)
		}
	}
	s.tables[pred.Name] = true
	return nil
}

// AddFact inserts a ground fact for pred into partition, creating the
// predicate's table on first use.
func (s *Store) AddFact(ctx context.Context, pred grounding.Predicate, values []grounding.GroundTerm, partition grounding.Partition, value, confidence *float64) error {
	if len(values) != pred.Arity {
		return errors.Errorf("sqlstore: predicate %s expects %d values, got %d", pred, pred.Arity, len(values))
	}
	if err := s.ensureTable(ctx, pred); err != nil {
		return err
	}

	cols := make([]string, 0, pred.Arity+3)
	placeholders := make([]string, 0, pred.Arity+3)
	args := make([]interface{}, 0, pred.Arity+3)
	for i, v := range values {
		cols = append(cols, argColumn(i))
		placeholders = append(placeholders, "?")
		args = append(args, encodeTerm(v))
	}
	cols = append(cols, "partition_id", "value", "confidence")
	placeholders = append(placeholders, "?", "?", "?")
	args = append(args, string(partition), nullableFloat(value), nullableFloat(confidence))

	stmt := "INSERT INTO " + tableName(pred.Name) + " (" + join(cols, ", ") + ") VALUES (" + join(placeholders, ", ") + ")"
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrapf(err, "sqlstore: inserting fact for %s", pred)
	}
	return nil
}

// OpenDatabase implements grounding.DataStore, enforcing the same
// partition-exclusivity invariant as internal/memstore, tracked against
// this Store's own registry of open databases — each concrete DataStore
// implementation owns its own open-database set.
func (s *Store) OpenDatabase(_ context.Context, write grounding.Partition, reads []grounding.Partition, closed grounding.ClosedPredicates) (grounding.Database, error) {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	for existing := range s.open {
		if existing.write == write {
			return nil, errors.Errorf("sqlstore: write partition %q already held by an open database", write)
		}
		for _, r := range existing.reads {
			if r == write {
				return nil, errors.Errorf("sqlstore: write partition %q is being read by another open database", write)
			}
		}
		for _, r := range reads {
			if r == existing.write {
				return nil, errors.Errorf("sqlstore: requested read partition %q is the write partition of another open database", r)
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

// nullableFloat adapts an optional float64 to a database/sql-safe driver
// value: nil stays nil, otherwise the dereferenced float64 is passed
// through (database/sql rejects *float64 as a bind argument type).
func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func join(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
