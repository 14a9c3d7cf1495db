package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// globalKeyMap holds the bindings the router handles on every page.
type globalKeyMap struct {
	Chat      key.Binding
	Help      key.Binding
	Pages     key.Binding
	Back      key.Binding
	Copy      key.Binding
	Dismiss   key.Binding
	Scroll    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var globalKeys = globalKeyMap{
	Chat:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "assistant")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Pages:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "pages")),
	Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	Scroll:    key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

func (k globalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pages, k.Chat, k.Back, k.Help, k.Quit}
}

func (k globalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pages, k.Back, k.Scroll},
		{k.Chat, k.Copy, k.Dismiss},
		{k.Help, k.Quit},
	}
}

// TableHelpContent returns help for pages built on the data table
func TableHelpContent() string {
	items := []HelpItem{
		{"↑ / ↓ / j / k", "Move cursor"},
		{"← / → / h / l", "Previous / next page"},
		{"[ / ]", "Focus previous / next column"},
		{"s", "Sort by focused column"},
		{"g", "Go to page"},
		{"+ / -", "Change rows per page"},
		{"Enter", "Open row"},
	}
	return renderHelpItems(items)
}

// RunsHelpContent returns help for the runs and datasets pages
func RunsHelpContent() string {
	items := []HelpItem{
		{"/", "Search by run id"},
		{"f", "Cycle status filter"},
		{"r", "Refresh now"},
		{"y", "Copy run id"},
	}
	return renderHelpItems(items) + TableHelpContent()
}

// DatasetHelpContent returns help for the dataset page
func DatasetHelpContent() string {
	items := []HelpItem{
		{"/", "Search items"},
		{"c", "Choose visible columns"},
		{"e / E", "Export JSON / CSV"},
		{"Enter", "Chat about the selected lead"},
		{"Ctrl+T / Ctrl+P", "Email / phone outreach template (lead chat)"},
		{"y", "Copy item as JSON"},
	}
	return renderHelpItems(items) + TableHelpContent()
}

// ActorsHelpContent returns help for the actors page
func ActorsHelpContent() string {
	items := []HelpItem{
		{"n", "Create actor"},
		{"y", "Copy actor id"},
		{"F", "Fork actor (detail view)"},
		{"Tab / Shift+Tab", "Move between form fields"},
		{"Enter", "Open actor / submit form"},
	}
	return renderHelpItems(items) + TableHelpContent()
}

// MarketplaceHelpContent returns help for the marketplace page
func MarketplaceHelpContent() string {
	items := []HelpItem{
		{"/", "Search"},
		{"c", "Cycle category"},
		{"f", "Toggle featured only"},
		{"F", "Fork selected actor"},
		{"Enter", "Open actor"},
	}
	return renderHelpItems(items) + TableHelpContent()
}

// ChatHelpContent returns help for the assistant panel
func ChatHelpContent() string {
	items := []HelpItem{
		{"Enter", "Send message"},
		{"Esc", "Minimize"},
		{"Ctrl+X", "Close and discard the transcript"},
		{"Ctrl+L", "Clear history (asks y/N)"},
		{"Ctrl+Y", "Copy last reply"},
	}
	return renderHelpItems(items)
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary)
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
