package table

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the single timestamp layout used across tables.
const DateFormat = "2006-01-02 15:04:05"

// State is what a table body shows.
type State int

const (
	StateLoading State = iota
	StateEmpty
	StateRows
)

// EmptyState is the message shown when there are no rows.
type EmptyState struct {
	Title       string
	Description string
}

// Table binds column definitions to the current rows and emits user intents
// through its callbacks. Pagination and Sort are owned by the page and copied
// in before each render.
type Table[T Row] struct {
	Columns    []Column[T]
	Rows       []T
	Loading    bool
	Pagination *Pagination
	Sort       Sort
	Empty      EmptyState

	OnSort         func(by string, order Order)
	OnPageChange   func(page int)
	OnLimitChange  func(limit int)
	OnRowClick     func(row T)
	IsRowClickable func(row T) bool
}

// New validates columns and returns an empty table.
func New[T Row](columns []Column[T]) (*Table[T], error) {
	for _, c := range columns {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return &Table[T]{
		Columns: columns,
		Empty:   EmptyState{Title: "No data", Description: "Nothing to show yet."},
	}, nil
}

// State reports whether the body is loading, empty or has rows.
func (t *Table[T]) State() State {
	switch {
	case t.Loading:
		return StateLoading
	case len(t.Rows) == 0:
		return StateEmpty
	default:
		return StateRows
	}
}

// HandleSort emits OnSort for column index col. Non-sortable columns and an
// unset handler make it a no-op.
func (t *Table[T]) HandleSort(col int) {
	if col < 0 || col >= len(t.Columns) || t.OnSort == nil {
		return
	}
	c := t.Columns[col]
	if !c.Sortable {
		return
	}
	next := t.Sort.Toggle(c.ResolvedSortKey())
	t.OnSort(next.By, next.Order)
}

// HandleGoToPage emits a page change for a valid page number input and
// reports whether the input was accepted (and should be cleared).
func (t *Table[T]) HandleGoToPage(input string) bool {
	if t.Pagination == nil || t.OnPageChange == nil {
		return false
	}
	page, ok := ParseGoToPage(input, t.Pagination.TotalPages)
	if !ok {
		return false
	}
	t.OnPageChange(page)
	return true
}

// Prev emits a change to the previous page unless already on the first.
func (t *Table[T]) Prev() {
	if t.Pagination == nil || t.OnPageChange == nil || !t.Pagination.HasPrev() {
		return
	}
	t.OnPageChange(t.Pagination.Page - 1)
}

// Next emits a change to the next page unless already on the last.
func (t *Table[T]) Next() {
	if t.Pagination == nil || t.OnPageChange == nil || !t.Pagination.HasNext() {
		return
	}
	t.OnPageChange(t.Pagination.Page + 1)
}

// ChangeLimit emits a limit change when n is an allowed limit.
func (t *Table[T]) ChangeLimit(n int) {
	if t.OnLimitChange == nil || !ValidLimit(n) {
		return
	}
	t.OnLimitChange(n)
}

// Clickable reports whether clicking row does anything.
func (t *Table[T]) Clickable(row T) bool {
	if t.OnRowClick == nil {
		return false
	}
	return t.IsRowClickable == nil || t.IsRowClickable(row)
}

// Click dispatches OnRowClick for a clickable row.
func (t *Table[T]) Click(row T) bool {
	if !t.Clickable(row) {
		return false
	}
	t.OnRowClick(row)
	return true
}

// Headers returns the column headers with sort indicators.
func (t *Table[T]) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h := c.Header
		if c.Sortable {
			h += t.Sort.Indicator(c.ResolvedSortKey())
		}
		out[i] = h
	}
	return out
}

// Cells returns the display strings of every row.
func (t *Table[T]) Cells() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = c.Cell(r)
		}
		out[i] = row
	}
	return out
}

// FormatValue stringifies a cell value. Nil, nil pointers, empty strings and
// zero times render as "-".
func FormatValue(v any) string {
	if v == nil {
		return "-"
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "-"
		}
		return FormatValue(rv.Elem().Interface())
	}
	switch x := v.(type) {
	case string:
		if x == "" {
			return "-"
		}
		return x
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.Local().Format(DateFormat)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = FormatValue(e)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(x, ", ")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
