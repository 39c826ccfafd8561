// Package listing builds filtered, paginated listing queries on top of GORM.
package listing

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Params carries the listing query parameters. A non-nil Search (including
// the empty string) enables substring filtering over the caller's searchable
// fields.
type Params struct {
	Search  *string
	Page    int
	PerPage int
}

// Normalize applies the 1-indexed page default and clamps per-page.
func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is the pagination envelope returned by listing operations.
type Page struct {
	Items       interface{} `json:"items"`
	Total       int64       `json:"total"`
	CurrentPage int         `json:"current_page"`
	PerPage     int         `json:"per_page"`
}

// ApplySearch OR-combines a substring match over the given columns.
// Postgres gets ILIKE, other dialects LOWER(...) LIKE.
func ApplySearch(db *gorm.DB, term string, columns ...string) *gorm.DB {
	if len(columns) == 0 {
		return db
	}

	if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
		conds := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			conds = append(conds, col+" ILIKE ?")
			args = append(args, "%"+term+"%")
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}

	conds := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, "LOWER("+col+") LIKE ?")
		args = append(args, "%"+strings.ToLower(term)+"%")
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}
