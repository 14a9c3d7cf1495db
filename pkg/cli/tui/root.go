package tui

import (
	"context"
	"strings"
	"time"

	"scrapi-go/pkg/chat"
	"scrapi-go/pkg/cli/logger"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	toastTTL        = 5 * time.Second
	maxHistoryDepth = 50
)

// page is one routed screen. Pages are owned by the root and never returned
// as tea.Models; the root forwards messages and composes their views.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Title() string
	HelpContent() string
	// Capturing reports whether the page wants every key, e.g. while a text
	// input is focused.
	Capturing() bool
	SetSize(width, height int)
	// Close cancels in-flight requests and stops timers.
	Close()
}

// navPages are reachable with the number keys.
var navPages = []struct {
	key   string
	label string
	path  string
}{
	{"1", "Dashboard", "/"},
	{"2", "Actors", "/actors"},
	{"3", "Runs", "/runs"},
	{"4", "Datasets", "/datasets"},
	{"5", "Marketplace", "/marketplace"},
}

type (
	effectMsg struct {
		effect chat.Effect
	}
	bannerExpiredMsg struct {
		id int
	}
	toastExpiredMsg struct {
		id int
	}
	exportEffectDoneMsg struct {
		path string
		err  error
	}
)

// rootModel is the app shell: router, navigation history, assistant panel,
// feedback banner and toasts around the active page.
type rootModel struct {
	deps
	sess *session.Session

	path    string
	page    page
	history []string

	chat  *chatWidget
	frame *viewportWrapper

	banner   string
	bannerID int
	toast    *msgs.ToastMsg
	toastID  int

	width  int
	height int
}

// NewRootModel builds the shell and opens the session's last visited route.
func NewRootModel(ctx context.Context, sess *session.Session, api API) tea.Model {
	cfg := sess.Config()
	d := deps{
		ctx:          ctx,
		api:          api,
		pageSize:     cfg.UI.PageSize,
		pollInterval: cfg.UI.PollIntervalSeconds,
		historyLimit: cfg.UI.HistoryLimit,
		exportDir:    cfg.Export.Dir,
		theme:        cfg.UI.Theme,
	}
	m := &rootModel{
		deps:   d,
		sess:   sess,
		chat:   newChatWidget(d),
		frame:  newViewportWrapper(),
		width:  msgs.DefaultWidth,
		height: msgs.DefaultHeight,
	}
	m.path = normalizePath(sess.LastPath())
	m.page = m.newPage(m.path)
	return m
}

func (m *rootModel) Init() tea.Cmd {
	return m.page.Init()
}

// normalizePath gives every route a leading slash and no trailing one.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

// newPage resolves a route. Routes the terminal client does not implement
// get a placeholder.
func (m *rootModel) newPage(path string) page {
	switch {
	case path == "/":
		return newDashboardPage(m.deps)
	case path == "/runs":
		return newRunsPage(m.deps, "Runs", "")
	case path == "/datasets":
		return newRunsPage(m.deps, "Datasets", models.RunStatusSucceeded)
	case path == "/actors":
		return newActorsPage(m.deps)
	case path == "/marketplace":
		return newMarketplacePage(m.deps)
	case strings.HasPrefix(path, "/dataset/"):
		if id := strings.TrimPrefix(path, "/dataset/"); id != "" && !strings.Contains(id, "/") {
			return newDatasetPage(m.deps, id)
		}
	case strings.HasPrefix(path, "/actors/"):
		if id := strings.TrimPrefix(path, "/actors/"); id != "" && !strings.Contains(id, "/") {
			return newActorDetailPage(m.deps, id)
		}
	}
	return newUnavailablePage(path)
}

// navigate opens path, remembering the current route for back.
func (m *rootModel) navigate(path string) tea.Cmd {
	path = normalizePath(path)
	if path == m.path {
		return nil
	}
	m.history = append(m.history, m.path)
	if len(m.history) > maxHistoryDepth {
		m.history = m.history[len(m.history)-maxHistoryDepth:]
	}
	return m.open(path)
}

// back returns to the previous route, if any.
func (m *rootModel) back() tea.Cmd {
	if len(m.history) == 0 {
		return nil
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.open(prev)
}

func (m *rootModel) open(path string) tea.Cmd {
	logger.Info("navigate", "from", m.path, "to", path)
	if m.page != nil {
		m.page.Close()
	}
	m.path = path
	m.page = m.newPage(path)
	m.sess.SetLastPath(path)
	m.frame.HideHelp()
	m.frame.ResetScroll()
	m.resize()
	return m.page.Init()
}

func (m *rootModel) resize() {
	m.frame.SetSize(m.width, m.height)
	m.chat.SetSize(m.width, m.height)
	m.page.SetSize(m.width, m.frame.BodyHeight(m.renderHeader(), m.renderFooter()))
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case msgs.NavigateMsg:
		return m, m.navigate(msg.Path)

	case msgs.BackMsg:
		return m, m.back()

	case msgs.ToastMsg:
		m.toastID++
		m.toast = &msg
		id := m.toastID
		return m, tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case ChatActionMsg:
		return m, m.schedule(chat.Plan(msg.Action))

	case effectMsg:
		return m, m.apply(msg.effect)

	case bannerExpiredMsg:
		if msg.id == m.bannerID {
			m.banner = ""
		}
		return m, nil

	case exportEffectDoneMsg:
		text := chat.ExportSucceeded
		if msg.err != nil {
			logger.LogError(msg.err, "chat export failed")
			text = chat.ExportFailed
		} else {
			logger.Info("chat export written", "path", msg.path)
		}
		return m, m.setBanner(text, chat.BannerTTL)

	case chatHistoryMsg, chatReplyMsg, chatClearedMsg:
		return m, m.chat.Update(msg)

	case spinner.TickMsg:
		return m, tea.Batch(m.page.Update(msg), m.chat.Update(msg))
	}

	return m, m.page.Update(msg)
}

func (m *rootModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "ctrl+c":
		m.page.Close()
		return tea.Quit
	case "ctrl+k":
		return m.chat.Toggle()
	}

	if m.frame.HelpShowing() {
		switch key {
		case "?", "esc", "q":
			m.frame.HideHelp()
		}
		return nil
	}
	if m.chat.Focused() {
		return m.chat.Update(msg)
	}
	if m.page.Capturing() {
		return m.page.Update(msg)
	}

	switch key {
	case "?":
		m.frame.ToggleHelp()
		return nil
	case "q":
		m.page.Close()
		return tea.Quit
	case "esc", "backspace":
		return m.back()
	case "x":
		if m.toast != nil {
			m.toast = nil
			return nil
		}
	case "pgup", "pgdown":
		return m.frame.Scroll(msg)
	}
	for _, p := range navPages {
		if key == p.key {
			return m.navigate(p.path)
		}
	}
	return m.page.Update(msg)
}

// schedule turns a plan into timed messages; effects due now apply at once.
func (m *rootModel) schedule(effects []chat.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		eff := eff
		if eff.At <= 0 {
			cmds = append(cmds, m.apply(eff))
			continue
		}
		cmds = append(cmds, tea.Tick(eff.At, func(time.Time) tea.Msg { return effectMsg{effect: eff} }))
	}
	return tea.Batch(cmds...)
}

func (m *rootModel) apply(eff chat.Effect) tea.Cmd {
	logger.Debug("chat effect", "kind", eff.Kind, "path", eff.Path)
	switch eff.Kind {
	case chat.EffectBanner:
		return m.setBanner(eff.Text, eff.TTL)
	case chat.EffectClearBanner:
		m.bannerID++
		m.banner = ""
	case chat.EffectNavigate:
		return m.navigate(eff.Path)
	case chat.EffectExport:
		ctx, api, dir := m.ctx, m.api, m.exportDir
		return func() tea.Msg {
			path, err := api.DownloadRunExport(ctx, eff.RunID, eff.Format, dir)
			return exportEffectDoneMsg{path: path, err: err}
		}
	}
	return nil
}

// setBanner shows text; a positive ttl clears it later unless a newer banner
// replaced it.
func (m *rootModel) setBanner(text string, ttl time.Duration) tea.Cmd {
	m.bannerID++
	m.banner = text
	if ttl <= 0 {
		return nil
	}
	id := m.bannerID
	return tea.Tick(ttl, func(time.Time) tea.Msg { return bannerExpiredMsg{id: id} })
}

func (m *rootModel) activeNav() string {
	switch {
	case strings.HasPrefix(m.path, "/actors/"):
		return "/actors"
	case strings.HasPrefix(m.path, "/dataset/"):
		return "/datasets"
	}
	return m.path
}

func (m *rootModel) renderHeader() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("scrapi"))
	b.WriteString(" " + mutedStyle.Render("› "+m.page.Title()) + "\n")

	items := make([]string, 0, len(navPages))
	active := m.activeNav()
	for _, p := range navPages {
		label := p.key + " " + p.label
		if p.path == active {
			items = append(items, navActiveStyle.Render(label))
		} else {
			items = append(items, navItemStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, items...))
	if m.banner != "" {
		b.WriteString("\n" + bannerStyle.Render(m.banner))
	}
	return b.String()
}

func (m *rootModel) renderFooter() string {
	var parts []string
	if v := m.chat.View(); v != "" {
		parts = append(parts, v)
	}
	if m.toast != nil {
		style := toastStyle
		if m.toast.Err {
			style = toastErrorStyle
		}
		parts = append(parts, style.Render(m.toast.Text+"  "+mutedStyle.Render("x dismiss")))
	}
	parts = append(parts, m.frame.help.ShortHelpView(globalKeys.ShortHelp()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *rootModel) View() string {
	return m.frame.Render(m.renderHeader(), m.page.View(), m.renderFooter(), m.page.HelpContent())
}
