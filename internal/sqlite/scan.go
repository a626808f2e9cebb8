package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pantry-app/pantry/pkg/types"
)

// Timestamp columns are declared DATETIME, which the driver maps to
// time.Time in both directions: bound time.Time values are stored in a form
// the driver parses back itself, and trigger-written CURRENT_TIMESTAMP text
// is converted on scan. All timestamps go through time.Time/sql.NullTime;
// no string layouts.

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullStr maps the empty string to NULL, preserving the schema's convention
// that optional text columns hold NULL rather than "".
func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullID(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// criteriaClause translates a criteria map into an AND-ed equality
// predicate. Keys use the model attribute naming convention and are resolved
// through the repository's explicit column map; an unknown key returns
// ErrUnknownCriteriaField rather than silently producing a no-op filter.
// Keys are sorted so the generated SQL is deterministic.
func criteriaClause(columns map[string]string, c types.Criteria) (string, []any, error) {
	if len(c) == 0 {
		return "", nil, nil
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		col, ok := columns[k]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", types.ErrUnknownCriteriaField, k)
		}
		conds = append(conds, col+" = ?")
		args = append(args, c[k])
	}
	return strings.Join(conds, " AND "), args, nil
}

// prefixCols qualifies each column of a select list with a table alias.
func prefixCols(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// idArg extracts a raw identifier from a model-or-id argument.
func idArg(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}
