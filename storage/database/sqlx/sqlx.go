// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mwalimu/tutorhub/core"
)

// ext resolves the executor a query runs on: the optional override when one is
// passed (a transaction, typically), the repository's own handle otherwise.
func ext(db *sqlx.DB, exec []core.DBExecutor) sqlx.ExtContext {
	if len(exec) > 0 {
		if e, ok := exec[0].(sqlx.ExtContext); ok {
			return e
		}
	}
	return db
}

// whereBuilder accumulates AND-ed clauses with `?` bindvars; callers Rebind
// the final query for the driver.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func orderBy(ordering []core.DBOrdering, fallback string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + fallback
	}
	parts := make([]string, len(ordering))
	for i, ord := range ordering {
		parts[i] = ord.String()
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
