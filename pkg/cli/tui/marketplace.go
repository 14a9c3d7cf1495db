package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"scrapi-go/pkg/cli/client"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/fetch"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func forkCmd(ctx context.Context, api API, id string) tea.Cmd {
	return func() tea.Msg {
		forked, err := api.ForkActor(ctx, id)
		return msgs.ForkedMsg{Actor: forked, Err: err}
	}
}

// marketplacePage browses public actors with server-side filters.
type marketplacePage struct {
	deps
	gen     int64
	tracker *fetch.Tracker
	query   models.MarketplaceQuery
	dt      *DataTable[models.Actor]

	// categories seen so far; "" means all.
	categories []string
	search     textinput.Model
	searching  bool
	forking    bool
	err        error
}

func newMarketplacePage(d deps) *marketplacePage {
	cols := actorColumns()
	cols[5] = table.Column[models.Actor]{
		Header:   "Featured",
		Accessor: table.Computed(func(a models.Actor) any { return a.IsFeatured }),
		Render: func(a models.Actor) string {
			if a.IsFeatured {
				return "★"
			}
			return ""
		},
		Width: 8,
	}
	dt, err := NewDataTable(cols[:6], DataTableOptions{RowSelect: true})
	if err != nil {
		panic(err)
	}
	dt.Table.Empty = table.EmptyState{Title: "No actors match", Description: "Try another category or clear the search."}

	in := textinput.New()
	in.Prompt = "Search: "
	in.Placeholder = "name or description"
	in.CharLimit = 100

	return &marketplacePage{
		deps:       d,
		gen:        nextGen(),
		tracker:    fetch.NewTracker(d.ctx),
		dt:         dt,
		categories: []string{""},
		search:     in,
	}
}

func (p *marketplacePage) Title() string       { return "Marketplace" }
func (p *marketplacePage) HelpContent() string { return MarketplaceHelpContent() }
func (p *marketplacePage) Capturing() bool     { return p.searching || p.dt.Capturing() }
func (p *marketplacePage) SetSize(w, _ int)    { p.dt.SetWidth(w) }
func (p *marketplacePage) Close()              { p.tracker.Stop() }

func (p *marketplacePage) Init() tea.Cmd {
	return p.reload()
}

func (p *marketplacePage) reload() tea.Cmd {
	ticket := p.tracker.Begin()
	api, q, gen := p.api, p.query, p.gen
	return tea.Batch(p.dt.SetLoading(true), func() tea.Msg {
		actors, err := api.Marketplace(ticket.Ctx, q)
		return msgs.ActorsLoadedMsg{Gen: gen, Seq: ticket.Seq, Actors: actors, Err: err}
	})
}

// learnCategories adds unseen categories, keeping them sorted after "all".
func (p *marketplacePage) learnCategories(actors []models.Actor) {
	for _, a := range actors {
		if a.Category != "" && !slices.Contains(p.categories, a.Category) {
			p.categories = append(p.categories, a.Category)
		}
	}
	slices.Sort(p.categories[1:])
}

func (p *marketplacePage) nextCategory() string {
	i := slices.Index(p.categories, p.query.Category)
	return p.categories[(i+1)%len(p.categories)]
}

func (p *marketplacePage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case msgs.ActorsLoadedMsg:
		if msg.Gen != p.gen || !p.tracker.Accept(msg.Seq) {
			return nil
		}
		if msg.Err != nil {
			p.dt.SetRows(nil)
			if client.IsCancelled(msg.Err) {
				return nil
			}
			p.err = msg.Err
			return errorToast("Failed to load marketplace", msg.Err)
		}
		p.err = nil
		p.learnCategories(msg.Actors)
		p.dt.SetRows(msg.Actors)
		return nil

	case msgs.ForkedMsg:
		if !p.forking {
			return nil
		}
		p.forking = false
		if msg.Err != nil {
			return errorToast("Fork failed", msg.Err)
		}
		return tea.Batch(toastCmd("✓ Forked "+msg.Actor.Name+" into your actors"), navigateCmd("/actors/"+msg.Actor.ID))

	case RowSelectedMsg[models.Actor]:
		if msg.ID != p.dt.ID() {
			return nil
		}
		return navigateCmd("/actors/" + msg.Row.ID)

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
		case "c":
			p.query.Category = p.nextCategory()
			return p.reload()
		case "f":
			p.query.Featured = !p.query.Featured
			return p.reload()
		case "r":
			return p.reload()
		case "F":
			a, ok := p.dt.Selected()
			if !ok || p.forking {
				return nil
			}
			p.forking = true
			return forkCmd(p.ctx, p.api, a.ID)
		}
		return p.dt.Update(msg)
	}
	return nil
}

func (p *marketplacePage) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		p.searching = false
		p.search.Blur()
		p.query.Search = strings.TrimSpace(p.search.Value())
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

func (p *marketplacePage) View() string {
	var b strings.Builder
	category := p.query.Category
	if category == "" {
		category = "all"
	}
	filters := []string{"category: " + category}
	if p.query.Featured {
		filters = append(filters, "featured only")
	}
	if p.query.Search != "" {
		filters = append(filters, fmt.Sprintf("search: %q", p.query.Search))
	}
	b.WriteString(mutedStyle.Render(strings.Join(filters, " · ")) + "\n")
	if p.searching {
		b.WriteString(p.search.View() + "\n")
	}
	if p.err != nil {
		b.WriteString(renderErrorView(p.err))
		return b.String()
	}
	b.WriteString(p.dt.View())
	if p.forking {
		b.WriteString(infoStyle.Render("Forking...") + "\n")
	}
	b.WriteString(helpStyle.Render("enter open · c category · f featured · / search · F fork · ? help"))
	return b.String()
}
