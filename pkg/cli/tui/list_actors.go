package tui

import (
	"strings"

	"scrapi-go/pkg/cli/client"
	"scrapi-go/pkg/cli/format"
	"scrapi-go/pkg/cli/logger"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/fetch"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func actorColumns() []table.Column[models.Actor] {
	return []table.Column[models.Actor]{
		{Header: "", Accessor: table.Computed(func(a models.Actor) any { return a.Icon }), Width: 3},
		{Header: "Name", Accessor: table.Field[models.Actor]("name"), Width: 28},
		{Header: "Category", Accessor: table.Field[models.Actor]("category"), Width: 18},
		{Header: "Runs", Accessor: table.Field[models.Actor]("runs_count"), Width: 6},
		{Header: "Rating", Accessor: table.Field[models.Actor]("rating"), Render: format.Rating, Width: 10},
		{Header: "Visibility", Accessor: table.Field[models.Actor]("visibility"), Width: 10},
		{Header: "Updated", Accessor: table.Field[models.Actor]("updated_at"), Width: 19},
	}
}

// actorsPage lists the user's actors and hosts the create form.
type actorsPage struct {
	deps
	gen     int64
	tracker *fetch.Tracker
	dt      *DataTable[models.Actor]
	form    *createActorForm
	step    int
	err     error
}

func newActorsPage(d deps) *actorsPage {
	dt, err := NewDataTable(actorColumns(), DataTableOptions{RowSelect: true})
	if err != nil {
		panic(err)
	}
	dt.Table.Empty = table.EmptyState{Title: "No actors yet", Description: "Press n to create one or fork one from the marketplace."}
	return &actorsPage{
		deps:    d,
		gen:     nextGen(),
		tracker: fetch.NewTracker(d.ctx),
		dt:      dt,
		step:    msgs.StepActorList,
	}
}

func (p *actorsPage) Title() string       { return "Actors" }
func (p *actorsPage) HelpContent() string { return ActorsHelpContent() }
func (p *actorsPage) Capturing() bool     { return p.step == msgs.StepActorCreate || p.dt.Capturing() }
func (p *actorsPage) SetSize(w, _ int)    { p.dt.SetWidth(w) }
func (p *actorsPage) Close()              { p.tracker.Stop() }

func (p *actorsPage) Init() tea.Cmd {
	return p.reload()
}

func (p *actorsPage) reload() tea.Cmd {
	ticket := p.tracker.Begin()
	api, gen := p.api, p.gen
	return tea.Batch(p.dt.SetLoading(true), func() tea.Msg {
		actors, err := api.ListActors(ticket.Ctx)
		return msgs.ActorsLoadedMsg{Gen: gen, Seq: ticket.Seq, Actors: actors, Err: err}
	})
}

func (p *actorsPage) Update(msg tea.Msg) tea.Cmd {
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
			return errorToast("Failed to load actors", msg.Err)
		}
		p.err = nil
		p.dt.SetRows(msg.Actors)
		return nil

	case msgs.ActorCreatedMsg:
		if p.form == nil {
			return nil
		}
		p.form.saving = false
		if msg.Err != nil {
			p.form.err = msg.Err
			logger.LogError(msg.Err, "create actor failed")
			return nil
		}
		p.form = nil
		p.step = msgs.StepActorList
		logger.Info("actor created", "id", msg.Actor.ID)
		return tea.Batch(toastCmd("✓ Actor created"), navigateCmd("/actors/"+msg.Actor.ID))

	case RowSelectedMsg[models.Actor]:
		if msg.ID != p.dt.ID() {
			return nil
		}
		return navigateCmd("/actors/" + msg.Row.ID)

	case spinner.TickMsg:
		return p.dt.Update(msg)

	case tea.KeyMsg:
		if p.step == msgs.StepActorCreate {
			return p.updateForm(msg)
		}
		if p.dt.Capturing() {
			return p.dt.Update(msg)
		}
		switch msg.String() {
		case "n":
			p.form = newCreateActorForm()
			p.step = msgs.StepActorCreate
			return nil
		case "r":
			return p.reload()
		case "y":
			if a, ok := p.dt.Selected(); ok {
				return copyCmd("Actor id", a.ID)
			}
			return nil
		}
		return p.dt.Update(msg)
	}
	return nil
}

func (p *actorsPage) updateForm(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		p.form = nil
		p.step = msgs.StepActorList
		return nil
	}
	cmd, submit := p.form.Update(msg)
	if !submit {
		return cmd
	}
	draft, err := p.form.Draft()
	if err != nil {
		p.form.err = err
		return nil
	}
	p.form.err = nil
	p.form.saving = true
	ctx, api := p.ctx, p.api
	return func() tea.Msg {
		created, err := api.CreateActor(ctx, draft)
		return msgs.ActorCreatedMsg{Actor: created, Err: err}
	}
}

func (p *actorsPage) View() string {
	if p.step == msgs.StepActorCreate && p.form != nil {
		return p.form.View()
	}
	var b strings.Builder
	if p.err != nil {
		b.WriteString(renderErrorView(p.err))
		return b.String()
	}
	b.WriteString(p.dt.View())
	b.WriteString(helpStyle.Render("enter open · n new actor · y copy id · r refresh · ? help"))
	return b.String()
}
