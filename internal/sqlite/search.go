package sqlite

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pantry-app/pantry/pkg/types"
)

// sanitizeQuery converts raw user input into a full-text match expression.
// Anything that is not a letter, digit or whitespace is stripped so match
// syntax characters cannot reach the query parser, then every remaining term
// becomes a quoted prefix token. An input with no usable terms returns "".
func sanitizeQuery(input string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, input)

	terms := strings.Fields(cleaned)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = `"` + t + `"*`
	}
	return strings.Join(terms, " ")
}

// Search runs a ranked full-text query over entity names, descriptions and
// custom field values. An empty entityType searches every type. Results
// exclude archived and soft-deleted entities even when their search rows
// still exist.
func (r *EntityRepository) Search(query, entityType string) ([]types.Entity, error) {
	if entityType != "" && !types.IsValidEntityType(entityType) {
		return nil, types.ErrInvalidType
	}

	match := sanitizeQuery(query)
	if match == "" {
		return []types.Entity{}, nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	q := `SELECT ` + prefixCols("e", entityCols) + `
        FROM Entity e
        JOIN (SELECT entity_id, rank FROM EntitySearch WHERE EntitySearch MATCH ?) m
          ON m.entity_id = e.id
        WHERE e.is_archived = 0 AND e.deleted_at IS NULL`
	args := []any{match}
	if entityType != "" {
		q += " AND e.type = ?"
		args = append(args, entityType)
	}
	q += " ORDER BY m.rank"

	rows, err := r.s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching entities: %w", err)
	}
	return collectEntities(rows)
}
