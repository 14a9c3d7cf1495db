package tui

import (
	"fmt"
	"strings"

	"scrapi-go/pkg/cli/client"
	"scrapi-go/pkg/cli/format"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/fetch"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

const dashboardRecentRuns = 5

// dashboardPage shows the latest runs next to featured marketplace actors.
type dashboardPage struct {
	deps
	gen     int64
	tracker *fetch.Tracker

	runs     *DataTable[models.Run]
	featured []models.Actor
	loading  bool
	err      error
}

func newDashboardPage(d deps) *dashboardPage {
	cols := runColumns()
	// Dashboard shows the compact set: run, status, task, results, started.
	dt, err := NewDataTable(cols[:5], DataTableOptions{RowSelect: true})
	if err != nil {
		panic(err)
	}
	dt.Table.IsRowClickable = func(r models.Run) bool { return r.HasResults() }
	dt.Table.Empty = table.EmptyState{Title: "No runs yet", Description: "Open the marketplace (5) to find a scraper."}

	return &dashboardPage{
		deps:    d,
		gen:     nextGen(),
		tracker: fetch.NewTracker(d.ctx),
		runs:    dt,
	}
}

func (p *dashboardPage) Title() string       { return "Dashboard" }
func (p *dashboardPage) HelpContent() string { return TableHelpContent() }
func (p *dashboardPage) Capturing() bool     { return false }
func (p *dashboardPage) SetSize(w, _ int)    { p.runs.SetWidth(w) }
func (p *dashboardPage) Close()              { p.tracker.Stop() }

func (p *dashboardPage) Init() tea.Cmd {
	return p.load()
}

// load fetches recent runs and featured actors concurrently. Either failure
// fails the whole load.
func (p *dashboardPage) load() tea.Cmd {
	p.loading = true
	ticket := p.tracker.Begin()
	api := p.api
	gen := p.gen
	fetchCmd := func() tea.Msg {
		var (
			runs     *models.RunsPage
			featured []models.Actor
		)
		g, ctx := errgroup.WithContext(ticket.Ctx)
		g.Go(func() error {
			var err error
			runs, err = api.ListRuns(ctx, models.RunsQuery{Page: 1, Limit: dashboardRecentRuns, SortBy: "started_at", SortOrder: "desc"})
			return err
		})
		g.Go(func() error {
			var err error
			featured, err = api.Marketplace(ctx, models.MarketplaceQuery{Featured: true})
			return err
		})
		if err := g.Wait(); err != nil {
			return msgs.DashboardLoadedMsg{Gen: gen, Err: err}
		}
		var recent []models.Run
		if runs != nil {
			recent = runs.Runs
		}
		return msgs.DashboardLoadedMsg{Gen: gen, Runs: recent, Featured: featured}
	}
	return tea.Batch(p.runs.SetLoading(true), fetchCmd)
}

func (p *dashboardPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case msgs.DashboardLoadedMsg:
		if msg.Gen != p.gen {
			return nil
		}
		p.loading = false
		if msg.Err != nil {
			p.runs.SetRows(nil)
			if client.IsCancelled(msg.Err) {
				return nil
			}
			p.err = msg.Err
			return errorToast("Failed to load dashboard", msg.Err)
		}
		p.err = nil
		p.runs.SetRows(msg.Runs)
		p.featured = msg.Featured
		return nil

	case RowSelectedMsg[models.Run]:
		if msg.ID != p.runs.ID() {
			return nil
		}
		return navigateCmd("/dataset/" + msg.Row.ID)

	case spinner.TickMsg:
		return p.runs.Update(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return p.load()
		case "m":
			return navigateCmd("/marketplace")
		case "a":
			return navigateCmd("/runs")
		}
		return p.runs.Update(msg)
	}
	return nil
}

func (p *dashboardPage) View() string {
	var b strings.Builder
	if p.err != nil {
		b.WriteString(renderErrorView(p.err))
		return b.String()
	}

	b.WriteString(boldStyle.Render("Recent runs"))
	b.WriteString("\n")
	b.WriteString(p.runs.View())
	b.WriteString(helpStyle.Render("enter open dataset · a all runs · r refresh"))
	b.WriteString("\n\n")

	b.WriteString(boldStyle.Render("Featured in the marketplace"))
	b.WriteString("\n")
	if p.loading {
		b.WriteString(renderLoadingState("Loading..."))
	} else if len(p.featured) == 0 {
		b.WriteString(mutedStyle.Render("Nothing featured right now.") + "\n")
	}
	for _, a := range p.featured {
		b.WriteString(fmt.Sprintf("  %s %s  %s  %s\n",
			a.Icon,
			nameStyle.Render(a.Name),
			mutedStyle.Render(a.Category),
			mutedStyle.Render("★ "+format.Rating(a)),
		))
		if a.Description != "" {
			b.WriteString(wrapText(a.Description, 76, "    "))
		}
	}
	b.WriteString(helpStyle.Render("m open marketplace"))
	return b.String()
}
