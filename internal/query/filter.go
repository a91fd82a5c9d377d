// Package query composes the parameterized WHERE clause used to list assets.
package query

import (
	"fmt"
	"strings"
)

// Match-all sentinels offered by the category and status pickers.
const (
	AllCategories = "All Categories"
	AllStatuses   = "All Statuses"
)

// OrderBy is the fixed ordering of every asset listing.
const OrderBy = " ORDER BY id"

// Filter holds the optional listing criteria. Empty fields and the
// match-all sentinels impose no restriction.
type Filter struct {
	Search   string
	Category string
	Status   string
}

// Predicate is a conjunction of SQL conditions with their bound arguments.
// Conditions only ever reference arguments through $n placeholders.
type Predicate struct {
	Conditions []string
	Args       []any
}

// IsMatchAll reports whether the predicate restricts nothing.
func (p Predicate) IsMatchAll() bool {
	return len(p.Conditions) == 0
}

// Where renders the predicate as a WHERE clause, or "" when it matches all rows.
func (p Predicate) Where() string {
	if p.IsMatchAll() {
		return ""
	}
	return " WHERE " + strings.Join(p.Conditions, " AND ")
}

// Build composes the predicate for f.
func Build(f Filter) Predicate {
	var p Predicate

	if search := strings.TrimSpace(f.Search); search != "" {
		p.Args = append(p.Args, "%"+EscapeLike(search)+"%")
		n := len(p.Args)
		p.Conditions = append(p.Conditions,
			fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR serial_number ILIKE $%d)", n, n, n))
	}

	if f.Category != "" && f.Category != AllCategories {
		p.Args = append(p.Args, f.Category)
		p.Conditions = append(p.Conditions, fmt.Sprintf("category = $%d", len(p.Args)))
	}

	if f.Status != "" && f.Status != AllStatuses {
		p.Args = append(p.Args, f.Status)
		p.Conditions = append(p.Conditions, fmt.Sprintf("status = $%d", len(p.Args)))
	}

	return p
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
