package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scrapi-go/pkg/cli/logger"
	"scrapi-go/pkg/cli/tui/msgs"
)

// viewportWrapper lays out the screen: a fixed header, the page body in a
// scrolling viewport, and a fixed footer. It also owns the help overlay.
type viewportWrapper struct {
	viewport viewport.Model
	help     help.Model
	width    int
	height   int
	showHelp bool
}

func newViewportWrapper() *viewportWrapper {
	h := help.New()
	h.ShowAll = true
	return &viewportWrapper{
		viewport: viewport.New(msgs.DefaultWidth, msgs.DefaultHeight),
		help:     h,
		width:    msgs.DefaultWidth,
		height:   msgs.DefaultHeight,
	}
}

func (w *viewportWrapper) SetSize(width, height int) {
	if width > 0 {
		w.width = width
	}
	if height > 0 {
		w.height = height
	}
	w.viewport.Width = w.width
	w.help.Width = w.width
}

func (w *viewportWrapper) ToggleHelp()       { w.showHelp = !w.showHelp }
func (w *viewportWrapper) HideHelp()         { w.showHelp = false }
func (w *viewportWrapper) HelpShowing() bool { return w.showHelp }

// Scroll moves the body by a page.
func (w *viewportWrapper) Scroll(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "pgup":
		w.viewport.ViewUp()
	case "pgdown":
		w.viewport.ViewDown()
	}
	return nil
}

// ResetScroll returns to the top, e.g. after navigating.
func (w *viewportWrapper) ResetScroll() { w.viewport.GotoTop() }

// BodyHeight is the room left for the page between header and footer.
func (w *viewportWrapper) BodyHeight(header, footer string) int {
	return max(w.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
}

// Render joins the three regions, or returns the help overlay.
func (w *viewportWrapper) Render(header, body, footer, pageHelp string) string {
	if w.showHelp {
		return w.renderHelpOverlay(pageHelp)
	}

	w.viewport.Height = w.BodyHeight(header, footer)
	w.viewport.SetContent(body)
	if w.viewport.PastBottom() {
		w.viewport.GotoBottom()
	}
	logger.Debug("frame rendered", "width", w.width, "height", w.height, "body", w.viewport.Height)

	return lipgloss.JoinVertical(lipgloss.Left, header, w.viewport.View(), footer)
}

func (w *viewportWrapper) renderHelpOverlay(pageHelp string) string {
	overlayStyle := lipgloss.NewStyle().
		Width(max(w.width-2, 10)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	parts := []string{titleStyle.Render("Keyboard Shortcuts")}
	if pageHelp != "" {
		parts = append(parts, boldStyle.Render("This page"), pageHelp)
	}
	parts = append(parts,
		boldStyle.Render("Assistant"), ChatHelpContent(),
		boldStyle.Render("Everywhere"), w.help.View(globalKeys),
		"", helpStyle.Render("Press '?' or Esc to close"),
	)
	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
