package tui

import (
	"fmt"
	"strings"
	"time"

	"scrapi-go/pkg/cli/client"
	"scrapi-go/pkg/cli/format"
	"scrapi-go/pkg/cli/logger"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/fetch"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"
	"scrapi-go/pkg/utils"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// statusFilters are cycled with "f" on the runs page.
var statusFilters = []string{"", models.RunStatusRunning, models.RunStatusSucceeded, models.RunStatusFailed, models.RunStatusQueued}

// runColumns is the canonical runs table.
func runColumns() []table.Column[models.Run] {
	return []table.Column[models.Run]{
		{Header: "Run", Accessor: table.Field[models.Run]("id"), Render: func(r models.Run) string { return utils.ShortID(r.ID) }, Width: 12},
		{Header: "Status", Accessor: table.Field[models.Run]("status"), Render: func(r models.Run) string { return format.Status(r.Status) }, Sortable: true, Width: 12},
		{Header: "Task", Accessor: table.Computed(func(r models.Run) any { return r.Task() }), Width: 36},
		{Header: "Results", Accessor: table.Field[models.Run]("results_count"), Sortable: true, Width: 8},
		{Header: "Started", Accessor: table.Field[models.Run]("started_at"), Sortable: true, Width: 19},
		{Header: "Duration", Accessor: table.Field[models.Run]("duration_seconds"), Render: func(r models.Run) string { return format.Duration(r.DurationSeconds) }, Sortable: true, Width: 9},
		{Header: "Usage", Accessor: table.Field[models.Run]("cost"), Render: func(r models.Run) string { return format.Cost(r.Cost) }, Sortable: true, Width: 9},
	}
}

// runsPage lists runs with server-side paging, sorting and search, and
// refreshes on a timer while it is visible. With a fixed status it serves
// as the datasets view.
type runsPage struct {
	deps
	title       string
	fixedStatus bool

	gen     int64
	tracker *fetch.Tracker
	query   models.RunsQuery
	dt      *DataTable[models.Run]

	search    textinput.Model
	searching bool

	loaded  bool
	failing bool
	err     error
	closed  bool
}

func newRunsPage(d deps, title, status string) *runsPage {
	dt, err := NewDataTable(runColumns(), DataTableOptions{Sort: true, Paginate: true, Limit: true, RowSelect: true})
	if err != nil {
		// The column set is static; a failure here is a programming error.
		panic(err)
	}
	dt.Table.IsRowClickable = func(r models.Run) bool { return r.HasResults() }
	dt.Table.Empty = table.EmptyState{Title: "No runs found", Description: "Start a scraper or ask the assistant to run one."}
	if status == models.RunStatusSucceeded {
		dt.Table.Empty = table.EmptyState{Title: "No datasets yet", Description: "Datasets appear here when a run succeeds."}
	}

	in := textinput.New()
	in.Placeholder = "run id"
	in.Prompt = "Search: "
	in.CharLimit = 64

	return &runsPage{
		deps:        d,
		title:       title,
		fixedStatus: status != "",
		gen:         nextGen(),
		tracker:     fetch.NewTracker(d.ctx),
		query: models.RunsQuery{
			Page:      1,
			Limit:     table.NormalizeLimit(d.pageSize),
			Status:    status,
			SortBy:    "started_at",
			SortOrder: string(table.Desc),
		},
		dt:     dt,
		search: in,
	}
}

func (p *runsPage) Title() string       { return p.title }
func (p *runsPage) HelpContent() string { return RunsHelpContent() }
func (p *runsPage) Capturing() bool     { return p.searching || p.dt.Capturing() }
func (p *runsPage) SetSize(w, _ int)    { p.dt.SetWidth(w) }

// Close stops polling and cancels any request in flight.
func (p *runsPage) Close() {
	p.closed = true
	p.tracker.Stop()
}

func (p *runsPage) Init() tea.Cmd {
	p.dt.SetSort(table.Sort{By: p.query.SortBy, Order: table.Order(p.query.SortOrder)})
	return tea.Batch(p.dt.SetLoading(true), p.fetch(), p.schedulePoll())
}

// fetch issues a runs request; any earlier request is cancelled.
func (p *runsPage) fetch() tea.Cmd {
	ticket := p.tracker.Begin()
	q := p.query
	api := p.api
	gen := p.gen
	return func() tea.Msg {
		page, err := api.ListRuns(ticket.Ctx, q)
		return msgs.RunsLoadedMsg{Gen: gen, Seq: ticket.Seq, Page: page, Err: err}
	}
}

// reload shows the loading state and fetches.
func (p *runsPage) reload() tea.Cmd {
	return tea.Batch(p.dt.SetLoading(true), p.fetch())
}

func (p *runsPage) schedulePoll() tea.Cmd {
	interval := time.Duration(p.pollInterval) * time.Second
	if interval <= 0 {
		return nil
	}
	gen := p.gen
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return msgs.PollTickMsg{Gen: gen}
	})
}

func (p *runsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case msgs.PollTickMsg:
		if msg.Gen != p.gen || p.closed {
			return nil
		}
		return tea.Batch(p.fetch(), p.schedulePoll())

	case msgs.RunsLoadedMsg:
		if msg.Gen != p.gen || !p.tracker.Accept(msg.Seq) {
			return nil
		}
		return p.applyRuns(msg)

	case SortMsg:
		if msg.ID != p.dt.ID() {
			return nil
		}
		p.query.SortBy = msg.By
		p.query.SortOrder = string(msg.Order)
		p.query.Page = 1
		p.dt.SetSort(table.Sort{By: msg.By, Order: msg.Order})
		return p.reload()

	case PageMsg:
		if msg.ID != p.dt.ID() {
			return nil
		}
		p.query.Page = msg.Page
		return p.reload()

	case LimitMsg:
		if msg.ID != p.dt.ID() {
			return nil
		}
		p.query.Limit = msg.Limit
		p.query.Page = 1
		return p.reload()

	case RowSelectedMsg[models.Run]:
		if msg.ID != p.dt.ID() {
			return nil
		}
		return navigateCmd("/dataset/" + msg.Row.ID)

	case spinner.TickMsg:
		return p.dt.Update(msg)

	case tea.KeyMsg:
		if p.searching {
			return p.updateSearch(msg)
		}
		if p.dt.Capturing() {
			return p.dt.Update(msg)
		}
		switch msg.String() {
		case "/":
			p.searching = true
			return p.search.Focus()
		case "f":
			if p.fixedStatus {
				return nil
			}
			p.query.Status = nextStatus(p.query.Status)
			p.query.Page = 1
			return p.reload()
		case "r":
			return p.reload()
		case "y":
			if run, ok := p.dt.Selected(); ok {
				return copyCmd("Run id", run.ID)
			}
			return nil
		}
		return p.dt.Update(msg)
	}
	return nil
}

func (p *runsPage) applyRuns(msg msgs.RunsLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		if client.IsCancelled(msg.Err) {
			return nil
		}
		p.err = msg.Err
		if !p.loaded {
			p.dt.SetRows(nil)
		}
		p.dt.Table.Loading = false
		// Poll failures repeat every interval; only the first one is shown.
		if p.failing {
			logger.LogError(msg.Err, "runs refresh failed")
			return nil
		}
		p.failing = true
		return errorToast("Failed to load runs", msg.Err)
	}

	p.err = nil
	p.failing = false
	page := msg.Page
	if page == nil {
		page = &models.RunsPage{Page: 1, Limit: p.query.Limit}
	}
	totalPages := max(page.TotalPages, 1)
	if page.Total > 0 && page.Page > totalPages {
		// The result set shrank under us; jump to its last page.
		p.query.Page = totalPages
		return p.fetch()
	}

	p.loaded = true
	limit := page.Limit
	if limit == 0 {
		limit = p.query.Limit
	}
	pagination := table.NewPagination(page.Page, limit, page.Total)
	p.query.Page = pagination.Page
	p.dt.SetPagination(&pagination)
	p.dt.SetRows(page.Runs)
	logger.Debug("runs loaded", "page", page.Page, "total", page.Total, "status", p.query.Status)
	return nil
}

func (p *runsPage) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		p.searching = false
		p.search.Blur()
		p.query.Search = strings.TrimSpace(p.search.Value())
		p.query.Page = 1
		return p.reload()
	case "esc":
		p.searching = false
		p.search.Blur()
		p.search.SetValue(p.query.Search)
		return nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	return cmd
}

func nextStatus(current string) string {
	for i, s := range statusFilters {
		if s == current {
			return statusFilters[(i+1)%len(statusFilters)]
		}
	}
	return ""
}

func (p *runsPage) View() string {
	var b strings.Builder

	filters := []string{}
	if p.query.Status != "" {
		filters = append(filters, "status: "+p.query.Status)
	} else {
		filters = append(filters, "status: all")
	}
	if p.query.Search != "" {
		filters = append(filters, fmt.Sprintf("search: %q", p.query.Search))
	}
	b.WriteString(mutedStyle.Render(strings.Join(filters, " · ")))
	b.WriteString("\n")
	if p.searching {
		b.WriteString(p.search.View() + "\n")
	}
	if p.err != nil && !p.loaded {
		b.WriteString(renderErrorView(p.err))
		return b.String()
	}
	b.WriteString(p.dt.View())
	b.WriteString(helpStyle.Render("enter open dataset · / search · s sort · f filter · y copy id · ? help"))
	return b.String()
}
