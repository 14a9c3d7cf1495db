package tui

import (
	"testing"

	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleActors() []models.Actor {
	return []models.Actor{
		{ID: "a1", Name: "Maps Scraper", Category: "Lead Generation", IsFeatured: true},
		{ID: "a2", Name: "Review Collector", Category: "E-commerce"},
		{ID: "a3", Name: "Job Board Crawler", Category: "Jobs"},
	}
}

func TestCreateActorForm_Draft(t *testing.T) {
	f := newCreateActorForm()

	_, err := f.Draft()
	assert.ErrorIs(t, err, errNameRequired)

	update := func(m tea.Msg) tea.Cmd {
		cmd, _ := f.Update(m.(tea.KeyMsg))
		return cmd
	}
	typeText(update, "  Dentist Finder ")
	f.Update(keyPress("tab"))
	typeText(update, "Finds dentists")
	f.Update(keyPress("ctrl+v"))

	draft, err := f.Draft()
	require.NoError(t, err)
	assert.Equal(t, "Dentist Finder", draft.Name)
	assert.Equal(t, "Finds dentists", draft.Description)
	assert.Equal(t, "public", draft.Visibility)
	assert.Nil(t, draft.Readme)
}

func TestCreateActorForm_EnterInReadmeIsNewline(t *testing.T) {
	f := newCreateActorForm()
	for i := 0; i < int(fieldReadme); i++ {
		f.Update(keyPress("tab"))
	}
	require.Equal(t, fieldReadme, f.currentField)

	_, submit := f.Update(keyPress("enter"))
	assert.False(t, submit)
	_, submit = f.Update(keyPress("ctrl+s"))
	assert.True(t, submit)

	f.Update(keyPress("tab"))
	assert.Equal(t, fieldName, f.currentField, "tab wraps around")
}

func TestActorsPage_CreateFlow(t *testing.T) {
	api := &fakeAPI{actors: sampleActors()}
	p := newActorsPage(testDeps(api))
	pump(t, p.Update, p.Init())
	assert.Len(t, p.dt.Table.Rows, 3)

	p.Update(keyPress("n"))
	require.True(t, p.Capturing())

	assert.Nil(t, p.Update(keyPress("enter")))
	require.NotNil(t, p.form)
	assert.ErrorIs(t, p.form.err, errNameRequired)
	assert.Contains(t, p.View(), "name is required")

	typeText(p.Update, "Dentist Finder")
	seen := pump(t, p.Update, p.Update(keyPress("enter")))

	nav := only[msgs.NavigateMsg](seen)
	require.Len(t, nav, 1)
	assert.Equal(t, "/actors/new-actor", nav[0].Path)
	toasts := only[msgs.ToastMsg](seen)
	require.Len(t, toasts, 1)
	assert.Equal(t, "✓ Actor created", toasts[0].Text)
	assert.False(t, p.Capturing())
}

func TestActorsPage_EscCancelsForm(t *testing.T) {
	p := newActorsPage(testDeps(&fakeAPI{}))
	p.Update(keyPress("n"))
	p.Update(keyPress("esc"))
	assert.Nil(t, p.form)
	assert.Equal(t, msgs.StepActorList, p.step)
}

func TestMarketplacePage_CategoriesAndFork(t *testing.T) {
	api := &fakeAPI{actors: sampleActors()}
	p := newMarketplacePage(testDeps(api))
	pump(t, p.Update, p.Init())

	assert.Equal(t, []string{"", "E-commerce", "Jobs", "Lead Generation"}, p.categories)

	pump(t, p.Update, p.Update(keyPress("c")))
	assert.Equal(t, "E-commerce", p.query.Category)
	assert.Contains(t, p.View(), "category: E-commerce")

	p.query.Category = "Lead Generation"
	pump(t, p.Update, p.Update(keyPress("c")))
	assert.Empty(t, p.query.Category, "cycling wraps back to all")

	pump(t, p.Update, p.Update(keyPress("f")))
	assert.True(t, p.query.Featured)

	seen := pump(t, p.Update, p.Update(keyPress("F")))
	nav := only[msgs.NavigateMsg](seen)
	require.Len(t, nav, 1)
	assert.Equal(t, "/actors/a1-fork", nav[0].Path)
	assert.False(t, p.forking)
}

func TestActorDetailPage_LoadAndFork(t *testing.T) {
	readme := "# Maps\nScrapes maps."
	actors := sampleActors()
	actors[0].Readme = &readme
	api := &fakeAPI{actors: actors}

	p := newActorDetailPage(testDeps(api), "a1")
	pump(t, p.Update, p.Init())
	view := p.View()
	assert.Contains(t, view, "Maps Scraper")
	assert.Contains(t, view, "Scrapes")

	seen := pump(t, p.Update, p.Update(keyPress("F")))
	toasts := only[msgs.ToastMsg](seen)
	require.Len(t, toasts, 1)
	assert.Equal(t, "✓ Actor forked successfully!", toasts[0].Text)
	nav := only[msgs.NavigateMsg](seen)
	require.Len(t, nav, 1)
	assert.Equal(t, "/actors/a1-fork", nav[0].Path)
}
