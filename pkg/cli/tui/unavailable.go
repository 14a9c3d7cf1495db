package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// unavailablePage stands in for web-only routes such as billing or settings.
type unavailablePage struct {
	path string
}

func newUnavailablePage(path string) *unavailablePage {
	return &unavailablePage{path: path}
}

func (p *unavailablePage) Init() tea.Cmd          { return nil }
func (p *unavailablePage) Update(tea.Msg) tea.Cmd { return nil }
func (p *unavailablePage) Title() string          { return p.path }
func (p *unavailablePage) HelpContent() string    { return "" }
func (p *unavailablePage) Capturing() bool        { return false }
func (p *unavailablePage) SetSize(int, int)       {}
func (p *unavailablePage) Close()                 {}

func (p *unavailablePage) View() string {
	return "\n" + renderWarning(p.path+" is not available in the terminal client.") + "\n\n" +
		helpStyle.Render("Use the web app for this page, or press 1-5 to switch pages.") + "\n"
}
