package tui

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"scrapi-go/pkg/table"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

const defaultColumnWidth = 24

var tableIDs atomic.Int64

// Table events. ID identifies the DataTable that emitted them so a page never
// acts on events from a table it no longer owns.
type (
	SortMsg struct {
		ID    int64
		By    string
		Order table.Order
	}
	PageMsg struct {
		ID   int64
		Page int
	}
	LimitMsg struct {
		ID    int64
		Limit int
	}
	RowSelectedMsg[T table.Row] struct {
		ID  int64
		Row T
	}
)

// DataTableOptions selects which engine callbacks are wired.
type DataTableOptions struct {
	Sort      bool
	Paginate  bool
	Limit     bool
	RowSelect bool
}

// DataTable is the terminal view of a table.Table. Engine callbacks are
// turned into messages that the owning page receives on the next update.
type DataTable[T table.Row] struct {
	id    int64
	Table *table.Table[T]

	cursor    int
	focus     int
	goingTo   bool
	gotoInput textinput.Model
	spinner   spinner.Model
	width     int
	pending   []tea.Msg
}

// NewDataTable validates columns and wires the requested callbacks.
func NewDataTable[T table.Row](columns []table.Column[T], opts DataTableOptions) (*DataTable[T], error) {
	t, err := table.New(columns)
	if err != nil {
		return nil, err
	}

	in := textinput.New()
	in.Placeholder = "page"
	in.CharLimit = 6
	in.Width = 8
	in.Prompt = "Go to page: "
	in.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	dt := &DataTable[T]{
		id:        tableIDs.Add(1),
		Table:     t,
		gotoInput: in,
		spinner:   sp,
		width:     100,
	}

	if opts.Sort {
		t.OnSort = func(by string, order table.Order) {
			dt.emit(SortMsg{ID: dt.id, By: by, Order: order})
		}
	}
	if opts.Paginate {
		t.OnPageChange = func(page int) {
			dt.emit(PageMsg{ID: dt.id, Page: page})
		}
	}
	if opts.Limit {
		t.OnLimitChange = func(limit int) {
			dt.emit(LimitMsg{ID: dt.id, Limit: limit})
		}
	}
	if opts.RowSelect {
		t.OnRowClick = func(row T) {
			dt.emit(RowSelectedMsg[T]{ID: dt.id, Row: row})
		}
	}
	return dt, nil
}

func (dt *DataTable[T]) ID() int64 { return dt.id }

func (dt *DataTable[T]) emit(msg tea.Msg) {
	dt.pending = append(dt.pending, msg)
}

// flush turns queued engine events into commands.
func (dt *DataTable[T]) flush(cmds ...tea.Cmd) tea.Cmd {
	for _, msg := range dt.pending {
		msg := msg
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	dt.pending = nil
	return tea.Batch(cmds...)
}

// SetRows replaces the rows and ends the loading state.
func (dt *DataTable[T]) SetRows(rows []T) {
	dt.Table.Rows = rows
	dt.Table.Loading = false
	if dt.cursor >= len(rows) {
		dt.cursor = max(len(rows)-1, 0)
	}
}

// SetLoading shows the loading placeholder. Returns the spinner tick.
func (dt *DataTable[T]) SetLoading(loading bool) tea.Cmd {
	dt.Table.Loading = loading
	if loading {
		return dt.spinner.Tick
	}
	return nil
}

func (dt *DataTable[T]) SetPagination(p *table.Pagination) { dt.Table.Pagination = p }

func (dt *DataTable[T]) SetSort(s table.Sort) { dt.Table.Sort = s }

func (dt *DataTable[T]) SetWidth(w int) {
	if w > 0 {
		dt.width = w
	}
}

// SetColumns swaps the visible columns, keeping focus in range.
func (dt *DataTable[T]) SetColumns(columns []table.Column[T]) {
	dt.Table.Columns = columns
	if dt.focus >= len(columns) {
		dt.focus = max(len(columns)-1, 0)
	}
}

// Selected returns the row under the cursor.
func (dt *DataTable[T]) Selected() (T, bool) {
	var zero T
	if dt.Table.State() != table.StateRows || dt.cursor >= len(dt.Table.Rows) {
		return zero, false
	}
	return dt.Table.Rows[dt.cursor], true
}

func (dt *DataTable[T]) Cursor() int { return dt.cursor }

func (dt *DataTable[T]) FocusedColumn() int { return dt.focus }

// Capturing reports whether the go-to-page input has the keyboard.
func (dt *DataTable[T]) Capturing() bool { return dt.goingTo }

// Update handles table keys and spinner ticks.
func (dt *DataTable[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !dt.Table.Loading {
			return nil
		}
		var cmd tea.Cmd
		dt.spinner, cmd = dt.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if dt.goingTo {
			return dt.updateGoTo(msg)
		}
		return dt.updateKeys(msg)
	}
	return nil
}

func (dt *DataTable[T]) updateGoTo(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		dt.closeGoTo()
		return nil
	case "enter":
		if dt.Table.HandleGoToPage(dt.gotoInput.Value()) {
			dt.closeGoTo()
		}
		return dt.flush()
	}
	var cmd tea.Cmd
	dt.gotoInput, cmd = dt.gotoInput.Update(msg)
	return cmd
}

func (dt *DataTable[T]) closeGoTo() {
	dt.goingTo = false
	dt.gotoInput.Reset()
	dt.gotoInput.Blur()
}

func (dt *DataTable[T]) updateKeys(msg tea.KeyMsg) tea.Cmd {
	rows := len(dt.Table.Rows)
	switch msg.String() {
	case "up", "k":
		if dt.cursor > 0 {
			dt.cursor--
		}
	case "down", "j":
		if dt.cursor < rows-1 {
			dt.cursor++
		}
	case "home":
		dt.cursor = 0
	case "end":
		dt.cursor = max(rows-1, 0)
	case "left", "h":
		dt.Table.Prev()
	case "right", "l":
		dt.Table.Next()
	case "[":
		if dt.focus > 0 {
			dt.focus--
		}
	case "]":
		if dt.focus < len(dt.Table.Columns)-1 {
			dt.focus++
		}
	case "s":
		dt.Table.HandleSort(dt.focus)
	case "g":
		if dt.Table.Pagination != nil && dt.Table.OnPageChange != nil {
			dt.goingTo = true
			return dt.gotoInput.Focus()
		}
	case "+", "=":
		dt.stepLimit(1)
	case "-":
		dt.stepLimit(-1)
	case "enter":
		if row, ok := dt.Selected(); ok {
			dt.Table.Click(row)
		}
	}
	return dt.flush()
}

func (dt *DataTable[T]) stepLimit(dir int) {
	if dt.Table.Pagination == nil {
		return
	}
	i := slices.Index(table.Limits, dt.Table.Pagination.Limit)
	if i < 0 {
		dt.Table.ChangeLimit(table.DefaultLimit)
		return
	}
	next := i + dir
	if next < 0 || next >= len(table.Limits) {
		return
	}
	dt.Table.ChangeLimit(table.Limits[next])
}

// View renders the loading placeholder, the empty state or the rows with a
// pagination footer.
func (dt *DataTable[T]) View() string {
	switch dt.Table.State() {
	case table.StateLoading:
		return "\n" + dt.spinner.View() + " " + infoStyle.Render("Loading...") + "\n"
	case table.StateEmpty:
		var b strings.Builder
		b.WriteString("\n" + boldStyle.Render(dt.Table.Empty.Title) + "\n")
		if dt.Table.Empty.Description != "" {
			b.WriteString(mutedStyle.Render(dt.Table.Empty.Description) + "\n")
		}
		return b.String()
	}

	cols := dt.Table.Columns
	widths := dt.columnWidths()
	headers := dt.Table.Headers()
	for i := range headers {
		headers[i] = runewidth.Truncate(headers[i], widths[i], "…")
	}
	cells := dt.Table.Cells()
	for _, row := range cells {
		for j := range row {
			row[j] = runewidth.Truncate(strings.ReplaceAll(row[j], "\n", " "), widths[j], "…")
		}
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dividerStyle).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == dt.focus && dt.Table.OnSort != nil && cols[col].Sortable {
					return tableFocusHeaderStyle
				}
				return tableHeaderStyle
			}
			if row == dt.cursor {
				return tableCursorStyle
			}
			if dt.Table.OnRowClick != nil && row < len(dt.Table.Rows) && !dt.Table.Clickable(dt.Table.Rows[row]) {
				return tableDisabledStyle
			}
			return tableCellStyle
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(dt.footer())
	return b.String()
}

// columnWidths shares the available width between columns, honoring
// explicit widths.
func (dt *DataTable[T]) columnWidths() []int {
	cols := dt.Table.Columns
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = c.Width
		if widths[i] <= 0 {
			widths[i] = defaultColumnWidth
		}
	}
	// Each column costs two cells of padding and one of border.
	budget := dt.width - len(cols)*3 - 1
	total := 0
	for _, w := range widths {
		total += w
	}
	if total > budget && budget > 0 {
		for i := range widths {
			widths[i] = max(widths[i]*budget/total, 4)
		}
	}
	return widths
}

func (dt *DataTable[T]) footer() string {
	p := dt.Table.Pagination
	if p == nil {
		return ""
	}
	from, to := p.Range()

	prev, next := "‹ prev", "next ›"
	if p.HasPrev() {
		prev = selectedStyle.Render(prev)
	} else {
		prev = mutedStyle.Render(prev)
	}
	if p.HasNext() {
		next = selectedStyle.Render(next)
	} else {
		next = mutedStyle.Render(next)
	}

	line := fmt.Sprintf("%s  Page %d of %d  %s   %s",
		prev, p.Page, p.TotalPages, next,
		mutedStyle.Render(fmt.Sprintf("showing %d-%d of %d · %d per page", from, to, p.Total, p.Limit)))
	if dt.goingTo {
		line += "\n" + dt.gotoInput.View()
	}
	return line + "\n"
}
