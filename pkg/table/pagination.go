package table

import (
	"slices"
	"strconv"
	"strings"
)

// Limits are the page sizes a user may pick.
var Limits = []int{10, 20, 50, 100}

// DefaultLimit is used when a configured page size is not an allowed limit.
const DefaultLimit = 20

// ValidLimit reports whether n is one of Limits.
func ValidLimit(n int) bool {
	return slices.Contains(Limits, n)
}

// NormalizeLimit returns n when allowed, DefaultLimit otherwise.
func NormalizeLimit(n int) int {
	if ValidLimit(n) {
		return n
	}
	return DefaultLimit
}

// Pagination is the server-reported paging state.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// TotalPages returns max(1, ceil(total/limit)).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// NewPagination derives TotalPages and clamps page into range.
func NewPagination(page, limit, total int) Pagination {
	if total < 0 {
		total = 0
	}
	p := Pagination{Limit: limit, Total: total, TotalPages: TotalPages(total, limit)}
	p.Page = p.Clamp(page)
	return p
}

// Clamp bounds page to [1, TotalPages].
func (p Pagination) Clamp(page int) int {
	last := p.TotalPages
	if last < 1 {
		last = 1
	}
	if page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	return page
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// Range returns the 1-based index of the first and last row on the page.
func (p Pagination) Range() (from, to int) {
	if p.Total == 0 {
		return 0, 0
	}
	from = (p.Page-1)*p.Limit + 1
	to = from + p.Limit - 1
	if to > p.Total {
		to = p.Total
	}
	return from, to
}

// ParseGoToPage parses a "go to page" input. ok is false for anything that is
// not an integer in [1, totalPages].
func ParseGoToPage(input string, totalPages int) (page int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > totalPages {
		return 0, false
	}
	return n, true
}

// Slice returns the rows of the current page for data held client side.
func Slice[T any](rows []T, p Pagination) []T {
	if p.Limit <= 0 {
		return rows
	}
	start := (p.Page - 1) * p.Limit
	if start < 0 || start >= len(rows) {
		return nil
	}
	end := start + p.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
