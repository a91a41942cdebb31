// Package sqlstore is a database/sql-backed grounding.DataStore, persisting
// each Standard predicate as one relation table with columns
// (arg_1..arg_k, partition_id, value, confidence). It is driven by
// modernc.org/sqlite, a pure-Go driver requiring no cgo toolchain, so the
// store is as easy to stand up in a test binary as internal/memstore while
// exercising a real SQL dialect.
package sqlstore

import (
	"fmt"
	"strings"
)

// tableName derives the SQL table name for a predicate, prefixed to avoid
// colliding with any reserved or user-chosen table in the same database
// file.
func tableName(predicate string) string {
	return "pred_" + strings.ToLower(predicate)
}

// argColumn names the column holding the literal's i'th argument (0-based).
func argColumn(i int) string {
	return fmt.Sprintf("arg_%d", i+1)
}

// createTableSQL builds the DDL for a predicate's relation table. value
// and confidence are nullable: a fact
// inserted without an explicit truth value defaults to "present, fully
// true" for the grounder's purposes.
func createTableSQL(predicate string, arity int) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(tableName(predicate))
	b.WriteString(" (\n")
	for i := 0; i < arity; i++ {
		b.WriteString("  ")
		b.WriteString(argColumn(i))
		b.WriteString(" TEXT NOT NULL,\n")
	}
	b.WriteString("  partition_id TEXT NOT NULL,\n")
	b.WriteString("  value REAL,\n")
	b.WriteString("  confidence REAL\n")
	b.WriteString(")")
	return b.String()
}

// indexSQL builds one index per argument column so equality selections and
// equi-joins on that column are not full scans.
func indexSQL(predicate string, arity int) []string {
	out := make([]string, 0, arity)
	tbl := tableName(predicate)
	for i := 0; i < arity; i++ {
		col := argColumn(i)
		out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)", tbl, col, tbl, col))
	}
	return out
}
