package table

// Order is a sort direction as sent to the backend.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Sort is the active server-side sort.
type Sort struct {
	By    string
	Order Order
}

// Toggle returns the sort after selecting key: the active key flips its
// order, a new key starts descending.
func (s Sort) Toggle(key string) Sort {
	if s.By == key {
		return Sort{By: key, Order: s.Order.Flip()}
	}
	return Sort{By: key, Order: Desc}
}

// Indicator is the header suffix for a column sorted by key.
func (s Sort) Indicator(key string) string {
	if key == "" || s.By != key {
		return ""
	}
	if s.Order == Asc {
		return " ↑"
	}
	return " ↓"
}
