package sqlstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/gitrdm/rulegrounder/pkg/grounding"
)

// Database is a scoped acquisition of a Store, implementing
// grounding.Database by compiling a Query into a single parameterized SQL
// statement joining one table per literal.
type Database struct {
	store  *Store
	write  grounding.Partition
	reads  []grounding.Partition
	closed grounding.ClosedPredicates

	closeOnce sync.Once
}

// Close releases the database's partition reservation.
func (db *Database) Close() error {
	db.closeOnce.Do(func() { db.store.release(db) })
	return nil
}

// ExecuteQuery implements grounding.Database by translating q into a join
// across one aliased table per positive literal: shared variables become
// equi-join predicates, constants become selections. Partial bindings
// are applied as extra equality predicates, and the variables they bind
// are left out of the select list (and so out of the result rows); a
// query whose variables are all bound still yields one empty row per
// match.
func (db *Database) ExecuteQuery(ctx context.Context, q *grounding.Query) (grounding.ResultList, error) {
	if len(q.Literals) == 0 {
		return nil, errors.New("sqlstore: query has no literals")
	}

	sqlText, args, projection, err := compile(q, db.reads)
	if err != nil {
		return nil, err
	}

	rows, err := db.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, errors.Wrap(err, "sqlstore: executing query")
	}
	defer rows.Close()

	var out grounding.ResultList
	scanBuf := make([]interface{}, len(projection))
	scanPtrs := make([]interface{}, len(projection))
	for i := range scanBuf {
		scanPtrs[i] = &scanBuf[i]
	}
	if len(projection) == 0 {
		// compile selects the constant 1 when nothing is projected.
		var placeholder interface{}
		scanPtrs = []interface{}{&placeholder}
	}
	for rows.Next() {
		if err := rows.Scan(scanPtrs...); err != nil {
			return nil, errors.Wrap(err, "sqlstore: scanning result row")
		}
		row := make(grounding.ResultRow, len(projection))
		for i, v := range projection {
			s, ok := scanBuf[i].(string)
			if !ok {
				return nil, errors.Errorf("sqlstore: column %q for variable %q is not text-encoded", v.column, v.name)
			}
			term, err := decodeTerm(s)
			if err != nil {
				return nil, err
			}
			row[v.name] = term
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "sqlstore: iterating result rows")
	}
	return out, nil
}

// projectedColumn records which aliased SQL column a query variable's
// first occurrence maps to, for reading the result set back out.
type projectedColumn struct {
	name   string
	column string
}

// compile builds the SQL text, its positional arguments, and the
// projection list for q, restricted to reads.
func compile(q *grounding.Query, reads []grounding.Partition) (string, []interface{}, []projectedColumn, error) {
	var args []interface{}
	var selectCols []string
	var fromTables []string
	var whereClauses []string
	firstOccurrence := make(map[string]string) // variable name -> alias.column
	var projection []projectedColumn

	for i, lit := range q.Literals {
		alias := fmt.Sprintf("t%d", i)
		fromTables = append(fromTables, tableName(lit.Predicate.Name)+" "+alias)

		if len(reads) == 0 {
			whereClauses = append(whereClauses, "1=0")
		} else {
			placeholders := make([]string, len(reads))
			for j, r := range reads {
				placeholders[j] = "?"
				args = append(args, string(r))
			}
			whereClauses = append(whereClauses, fmt.Sprintf("%s.partition_id IN (%s)", alias, join(placeholders, ", ")))
		}

		for col, arg := range lit.Args {
			qualified := fmt.Sprintf("%s.%s", alias, argColumn(col))
			switch t := arg.(type) {
			case grounding.GroundTerm:
				whereClauses = append(whereClauses, qualified+" = ?")
				args = append(args, encodeTerm(t))
			case grounding.Variable:
				if bound, ok := q.Partial[t.Name]; ok {
					whereClauses = append(whereClauses, qualified+" = ?")
					args = append(args, encodeTerm(bound))
					continue
				}
				if prior, ok := firstOccurrence[t.Name]; ok {
					whereClauses = append(whereClauses, prior+" = "+qualified)
					continue
				}
				firstOccurrence[t.Name] = qualified
			default:
				return "", nil, nil, errors.Errorf("sqlstore: term is neither Variable nor GroundTerm in %s", lit)
			}
		}
	}

	for _, v := range q.Variables {
		if _, bound := q.Partial[v]; bound {
			continue
		}
		col, ok := firstOccurrence[v]
		if !ok {
			return "", nil, nil, errors.Errorf("sqlstore: variable %q never occurs in a positive literal", v)
		}
		selectCols = append(selectCols, col)
		projection = append(projection, projectedColumn{name: v, column: col})
	}

	if len(selectCols) == 0 {
		selectCols = []string{"1"}
	}

	stmt := "SELECT " + join(selectCols, ", ") + " FROM " + join(fromTables, ", ")
	if len(whereClauses) > 0 {
		stmt += " WHERE " + join(whereClauses, " AND ")
	}
	return stmt, args, projection, nil
}
