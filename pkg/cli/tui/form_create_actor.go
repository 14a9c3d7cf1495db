package tui

import (
	"errors"
	"strings"

	"scrapi-go/pkg/models"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var errNameRequired = errors.New("name is required")

const (
	fieldName = iota
	fieldDescription
	fieldCategory
	fieldIcon
	fieldReadme
	fieldCount
)

// createActorForm collects a new actor draft. It does no I/O; the owning page
// submits the draft.
type createActorForm struct {
	nameInput     textinput.Model
	descInput     textinput.Model
	categoryInput textinput.Model
	iconInput     textinput.Model
	readmeInput   textarea.Model

	currentField int
	public       bool
	saving       bool
	err          error
}

func newCreateActorForm() *createActorForm {
	nameInput := textinput.New()
	nameInput.Placeholder = "Google Maps Scraper"
	nameInput.CharLimit = 120
	nameInput.Width = 60

	descInput := textinput.New()
	descInput.Placeholder = "What does it scrape?"
	descInput.CharLimit = 1000
	descInput.Width = 60

	categoryInput := textinput.New()
	categoryInput.Placeholder = "Lead Generation"
	categoryInput.CharLimit = 60
	categoryInput.Width = 60

	iconInput := textinput.New()
	iconInput.Placeholder = "🕷"
	iconInput.CharLimit = 8
	iconInput.Width = 10

	readme := textarea.New()
	readme.Placeholder = "Optional README (markdown)"
	readme.SetWidth(60)
	readme.SetHeight(5)
	readme.CharLimit = 10000

	f := &createActorForm{
		nameInput:     nameInput,
		descInput:     descInput,
		categoryInput: categoryInput,
		iconInput:     iconInput,
		readmeInput:   readme,
	}
	f.focusCurrentField()
	return f
}

// Draft validates the inputs and returns the payload to post.
func (f *createActorForm) Draft() (models.ActorCreate, error) {
	name := strings.TrimSpace(f.nameInput.Value())
	if name == "" {
		return models.ActorCreate{}, errNameRequired
	}
	draft := models.ActorCreate{
		Name:        name,
		Description: strings.TrimSpace(f.descInput.Value()),
		Category:    strings.TrimSpace(f.categoryInput.Value()),
		Icon:        strings.TrimSpace(f.iconInput.Value()),
		Visibility:  "private",
	}
	if f.public {
		draft.Visibility = "public"
	}
	if readme := strings.TrimSpace(f.readmeInput.Value()); readme != "" {
		draft.Readme = &readme
	}
	return draft, nil
}

func (f *createActorForm) focusCurrentField() {
	f.nameInput.Blur()
	f.descInput.Blur()
	f.categoryInput.Blur()
	f.iconInput.Blur()
	f.readmeInput.Blur()

	switch f.currentField {
	case fieldName:
		f.nameInput.Focus()
	case fieldDescription:
		f.descInput.Focus()
	case fieldCategory:
		f.categoryInput.Focus()
	case fieldIcon:
		f.iconInput.Focus()
	case fieldReadme:
		f.readmeInput.Focus()
	}
}

// Update routes keys to the focused field. submit is true when the user asked
// to save; the caller then reads Draft.
func (f *createActorForm) Update(msg tea.KeyMsg) (cmd tea.Cmd, submit bool) {
	if f.saving {
		return nil, false
	}
	switch msg.String() {
	case "tab":
		f.currentField = (f.currentField + 1) % fieldCount
		f.focusCurrentField()
		return nil, false
	case "shift+tab":
		f.currentField = (f.currentField - 1 + fieldCount) % fieldCount
		f.focusCurrentField()
		return nil, false
	case "ctrl+s":
		return nil, true
	case "ctrl+v":
		f.public = !f.public
		return nil, false
	case "enter":
		// The readme is multi-line; everywhere else enter saves.
		if f.currentField != fieldReadme {
			return nil, true
		}
	}

	switch f.currentField {
	case fieldName:
		f.nameInput, cmd = f.nameInput.Update(msg)
	case fieldDescription:
		f.descInput, cmd = f.descInput.Update(msg)
	case fieldCategory:
		f.categoryInput, cmd = f.categoryInput.Update(msg)
	case fieldIcon:
		f.iconInput, cmd = f.iconInput.Update(msg)
	case fieldReadme:
		f.readmeInput, cmd = f.readmeInput.Update(msg)
	}
	return cmd, false
}

func (f *createActorForm) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Create Actor"))

	field := func(i int, label, view string) {
		b.WriteString(fieldLabelStyle.Render(label))
		b.WriteString("\n")
		if f.currentField == i {
			b.WriteString(selectedStyle.Render(view))
		} else {
			b.WriteString(view)
		}
		b.WriteString("\n\n")
	}
	field(fieldName, "Name (required):", f.nameInput.View())
	field(fieldDescription, "Description:", f.descInput.View())
	field(fieldCategory, "Category:", f.categoryInput.View())
	field(fieldIcon, "Icon:", f.iconInput.View())
	field(fieldReadme, "README:", f.readmeInput.View())

	visibility := "private"
	if f.public {
		visibility = "public"
	}
	b.WriteString(renderField("Visibility", visibility))

	if f.err != nil {
		b.WriteString("\n" + renderError(userFacingError(f.err)) + "\n")
	}
	if f.saving {
		b.WriteString("\n" + infoStyle.Render("Saving...") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[Tab] Navigate  [Enter/Ctrl+S] Save  [Ctrl+V] Visibility  [Esc] Cancel"))
	return b.String()
}
