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

	tea "github.com/charmbracelet/bubbletea"
)

// actorDetailPage shows one actor, its README and a fork action.
type actorDetailPage struct {
	deps
	id      string
	gen     int64
	tracker *fetch.Tracker

	actor   *models.Actor
	loading bool
	forking bool
	err     error
	md      *markdownRenderer
}

func newActorDetailPage(d deps, id string) *actorDetailPage {
	return &actorDetailPage{
		deps:    d,
		id:      id,
		gen:     nextGen(),
		tracker: fetch.NewTracker(d.ctx),
		md:      newMarkdownRenderer(d.theme, 76),
	}
}

func (p *actorDetailPage) Title() string {
	if p.actor != nil {
		return p.actor.Name
	}
	return "Actor"
}

func (p *actorDetailPage) HelpContent() string {
	return renderHelpItems([]HelpItem{
		{"F", "Fork into your account"},
		{"y", "Copy actor id"},
		{"r", "Reload"},
	})
}

func (p *actorDetailPage) Capturing() bool  { return false }
func (p *actorDetailPage) SetSize(w, _ int) { p.md.SetWordWrap(max(w-4, 20)) }
func (p *actorDetailPage) Close()           { p.tracker.Stop() }

func (p *actorDetailPage) Init() tea.Cmd {
	return p.load()
}

func (p *actorDetailPage) load() tea.Cmd {
	p.loading = true
	ticket := p.tracker.Begin()
	api, id, gen := p.api, p.id, p.gen
	return func() tea.Msg {
		actor, err := api.GetActor(ticket.Ctx, id)
		return msgs.ActorLoadedMsg{Gen: gen, Actor: actor, Err: err}
	}
}

func (p *actorDetailPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case msgs.ActorLoadedMsg:
		if msg.Gen != p.gen {
			return nil
		}
		p.loading = false
		if msg.Err != nil {
			if client.IsCancelled(msg.Err) {
				return nil
			}
			p.err = msg.Err
			return errorToast("Failed to load actor", msg.Err)
		}
		p.err = nil
		p.actor = msg.Actor
		return nil

	case msgs.ForkedMsg:
		if !p.forking {
			return nil
		}
		p.forking = false
		if msg.Err != nil {
			return errorToast("Fork failed", msg.Err)
		}
		return tea.Batch(toastCmd("✓ Actor forked successfully!"), navigateCmd("/actors/"+msg.Actor.ID))

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return p.load()
		case "y":
			return copyCmd("Actor id", p.id)
		case "F":
			return p.fork()
		}
	}
	return nil
}

func (p *actorDetailPage) fork() tea.Cmd {
	if p.forking || p.actor == nil {
		return nil
	}
	p.forking = true
	return forkCmd(p.ctx, p.api, p.actor.ID)
}

func (p *actorDetailPage) View() string {
	if p.err != nil {
		return renderErrorView(p.err)
	}
	if p.loading || p.actor == nil {
		return renderLoadingState("Loading actor...")
	}
	a := p.actor

	var b strings.Builder
	title := a.Name
	if a.Icon != "" {
		title = a.Icon + " " + title
	}
	b.WriteString(renderTitle(title))
	if a.IsVerified {
		b.WriteString(successStyle.Render("✓ verified") + "  ")
	}
	if a.IsFeatured {
		b.WriteString(warningStyle.Render("★ featured"))
	}
	b.WriteString("\n")

	b.WriteString(renderField("ID", idStyle.Render(a.ID)))
	b.WriteString(renderField("Category", a.Category))
	b.WriteString(renderField("Visibility", a.Visibility))
	b.WriteString(renderField("Version", a.Version))
	if a.AuthorName != nil {
		b.WriteString(renderField("Author", *a.AuthorName))
	}
	b.WriteString(renderField("Rating", format.Rating(*a)))
	b.WriteString(renderField("Runs", fmt.Sprint(a.RunsCount)))
	if len(a.Tags) > 0 {
		b.WriteString(renderField("Tags", strings.Join(a.Tags, ", ")))
	}
	if a.ForkFrom != nil {
		b.WriteString(renderField("Forked from", *a.ForkFrom))
	}
	b.WriteString(renderField("Updated", a.UpdatedAt.Local().Format(table.DateFormat)))

	if a.Description != "" {
		b.WriteString("\n" + wrapText(a.Description, 76, ""))
	}
	if a.Readme != nil && *a.Readme != "" {
		b.WriteString(renderDivider(60) + "\n")
		b.WriteString(p.md.Render(*a.Readme) + "\n")
	}
	if p.forking {
		b.WriteString("\n" + infoStyle.Render("Forking...") + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("F fork · y copy id · esc back"))
	return b.String()
}
