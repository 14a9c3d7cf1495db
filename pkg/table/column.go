// Package table is the data table engine shared by every list page: column
// definitions, server-driven pagination, sort toggling and row click
// dispatch. It does no I/O; the owning page performs fetches in response to
// the events it emits.
package table

import (
	"errors"
	"fmt"
)

// Row is anything a table can display. Field resolves a named attribute
// for direct accessors.
type Row interface {
	Field(name string) any
}

// Accessor resolves a cell value. It is either a direct field lookup or a
// computed function, never both.
type Accessor[T Row] struct {
	field string
	fn    func(T) any
}

// Field returns a direct accessor that reads row.Field(name).
func Field[T Row](name string) Accessor[T] {
	return Accessor[T]{field: name}
}

// Computed returns an accessor backed by fn.
func Computed[T Row](fn func(T) any) Accessor[T] {
	return Accessor[T]{fn: fn}
}

// Name returns the field name of a direct accessor, or "".
func (a Accessor[T]) Name() string { return a.field }

// IsComputed reports whether the accessor is a function.
func (a Accessor[T]) IsComputed() bool { return a.fn != nil }

// Resolve returns the raw value for row.
func (a Accessor[T]) Resolve(row T) any {
	if a.fn != nil {
		return a.fn(row)
	}
	if a.field == "" {
		return nil
	}
	return row.Field(a.field)
}

var (
	ErrEmptyAccessor       = errors.New("column has no accessor")
	ErrComputedSortWithout = errors.New("sortable computed column needs a sort key")
)

// Column describes one table column.
type Column[T Row] struct {
	Header   string
	Accessor Accessor[T]
	// Render overrides the accessor for display.
	Render   func(T) string
	Sortable bool
	// SortKey is sent to the server instead of the accessor's field name.
	SortKey string
	Width   int
}

// Validate checks the column definition.
func (c Column[T]) Validate() error {
	if c.Accessor.field == "" && c.Accessor.fn == nil {
		return fmt.Errorf("column %q: %w", c.Header, ErrEmptyAccessor)
	}
	if c.Sortable && c.Accessor.IsComputed() && c.SortKey == "" {
		return fmt.Errorf("column %q: %w", c.Header, ErrComputedSortWithout)
	}
	return nil
}

// ResolvedSortKey is SortKey when set, otherwise the accessor's field name.
func (c Column[T]) ResolvedSortKey() string {
	if c.SortKey != "" {
		return c.SortKey
	}
	return c.Accessor.field
}

// Cell returns the display string for row.
func (c Column[T]) Cell(row T) string {
	if c.Render != nil {
		return c.Render(row)
	}
	return FormatValue(c.Accessor.Resolve(row))
}

// VisibleColumns filters out columns whose header is marked hidden.
func VisibleColumns[T Row](columns []Column[T], hidden map[string]bool) []Column[T] {
	if len(hidden) == 0 {
		return columns
	}
	out := make([]Column[T], 0, len(columns))
	for _, c := range columns {
		if !hidden[c.Header] {
			out = append(out, c)
		}
	}
	return out
}
