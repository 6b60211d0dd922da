package store

import (
	"strings"
)

// Order is a sort direction. The engine defaults to descending when a
// sort key is honored and no explicit order was given.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder maps a query value to an Order. Unrecognized values yield
// the empty Order, which the engine treats as "use the default".
func ParseOrder(s string) Order {
	switch strings.ToLower(s) {
	case "asc":
		return OrderAsc
	case "desc":
		return OrderDesc
	}
	return ""
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page describes one pagination window. Number is 1-indexed; values
// below 1 are raised to 1. Size is clamped to [0, MaxPageSize]. An
// explicit 0 is a valid empty window, so callers that want the default
// must ask for it (see DefaultPage).
type Page struct {
	Number int
	Size   int
	Sort   string
	Order  Order
}

// DefaultPage is the first page at the default size, unsorted.
func DefaultPage() Page {
	return Page{Number: 1, Size: DefaultPageSize}
}

// window clamps the page to its SQL LIMIT and OFFSET.
func (p Page) window() (limit, offset int) {
	size := p.Size
	if size < 0 {
		size = 0
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	number := p.Number
	if number < 1 {
		number = 1
	}
	return size, size * (number - 1)
}

// orderBy returns an ORDER BY clause for the page, or "" when no sort was
// requested or the sort key is not a known column. Sort keys are matched
// case-insensitively and unknown keys are silently ignored rather than
// surfaced as an error, so internal column names never become a hard API
// contract.
func (p Page) orderBy(columns []string) string {
	if p.Sort == "" {
		return ""
	}
	for _, column := range columns {
		if strings.EqualFold(column, p.Sort) {
			direction := "DESC"
			if p.Order == OrderAsc {
				direction = "ASC"
			}
			return " ORDER BY " + column + " " + direction
		}
	}
	return ""
}
