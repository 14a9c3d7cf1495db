package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer caches a glamour renderer for one theme and wrap width.
// The renderer is rebuilt when either changes.
type markdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	err      error
	theme    string
	wordWrap int
}

func newMarkdownRenderer(theme string, wordWrap int) *markdownRenderer {
	return &markdownRenderer{theme: normalizeTheme(theme), wordWrap: wordWrap}
}

func normalizeTheme(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dark":
		return "dark"
	case "light":
		return "light"
	default:
		return "auto"
	}
}

// Render returns terminal output for content, or content itself when
// rendering fails.
func (m *markdownRenderer) Render(content string) string {
	r := m.ensure()
	if r == nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func (m *markdownRenderer) ensure() *glamour.TermRenderer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renderer != nil && m.err == nil {
		return m.renderer
	}
	var options []glamour.TermRendererOption
	switch m.theme {
	case "light":
		options = append(options, glamour.WithStandardStyle("light"))
	case "dark":
		options = append(options, glamour.WithStandardStyle("dark"))
	default:
		options = append(options, glamour.WithAutoStyle())
	}
	options = append(options, glamour.WithWordWrap(max(m.wordWrap, 0)))
	m.renderer, m.err = glamour.NewTermRenderer(options...)
	if m.err != nil {
		return nil
	}
	return m.renderer
}

// SetWordWrap changes the wrap width, dropping the cached renderer.
func (m *markdownRenderer) SetWordWrap(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width < 0 {
		width = 0
	}
	if m.wordWrap != width {
		m.wordWrap = width
		m.renderer = nil
		m.err = nil
	}
}
