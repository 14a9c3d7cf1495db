package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"scrapi-go/pkg/chat"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/config"
	"scrapi-go/pkg/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(t *testing.T, api *fakeAPI, lastPath string) (*rootModel, *session.Session) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UI.LastPath = lastPath
	cfg.UI.PollIntervalSeconds = 0
	cfg.UI.Theme = "dark"
	sess := session.New(cfg, "")
	m, ok := NewRootModel(context.Background(), sess, api).(*rootModel)
	require.True(t, ok)
	return m, sess
}

func send(m *rootModel, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestNormalizePath(t *testing.T) {
	for in, want := range map[string]string{
		"":          "/",
		"/":         "/",
		"runs":      "/runs",
		"/runs/":    "/runs",
		" /actors ": "/actors",
	} {
		assert.Equal(t, want, normalizePath(in), "input %q", in)
	}
}

func TestRoot_Routes(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")

	assert.IsType(t, &dashboardPage{}, m.newPage("/"))
	assert.IsType(t, &runsPage{}, m.newPage("/runs"))
	assert.IsType(t, &actorsPage{}, m.newPage("/actors"))
	assert.IsType(t, &marketplacePage{}, m.newPage("/marketplace"))
	assert.IsType(t, &datasetPage{}, m.newPage("/dataset/run-1"))
	assert.IsType(t, &actorDetailPage{}, m.newPage("/actors/a1"))
	assert.IsType(t, &unavailablePage{}, m.newPage("/proxies"))
	assert.IsType(t, &unavailablePage{}, m.newPage("/dataset/run-1/extra"))

	datasets, ok := m.newPage("/datasets").(*runsPage)
	require.True(t, ok)
	assert.Equal(t, "succeeded", datasets.query.Status)
}

func TestRoot_OpensLastPath(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/runs/")
	assert.Equal(t, "/runs", m.path)
	assert.IsType(t, &runsPage{}, m.page)
}

func TestRoot_NavigateAndBack(t *testing.T) {
	m, sess := newTestRoot(t, &fakeAPI{}, "/")

	send(m, keyPress("3"))
	assert.Equal(t, "/runs", m.path)
	send(m, msgs.NavigateMsg{Path: "/dataset/run-1"})
	assert.Equal(t, "/dataset/run-1", m.path)
	assert.Equal(t, "/dataset/run-1", sess.LastPath())

	send(m, msgs.NavigateMsg{Path: "/dataset/run-1"})
	assert.Equal(t, []string{"/", "/runs"}, m.history, "same route is not pushed")

	send(m, keyPress("esc"))
	assert.Equal(t, "/runs", m.path)
	send(m, msgs.BackMsg{})
	assert.Equal(t, "/", m.path)

	assert.Nil(t, send(m, keyPress("esc")), "nothing left to go back to")
	assert.Equal(t, "/", m.path)
}

func TestRoot_HistoryIsBounded(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")
	for i := 0; i < maxHistoryDepth+10; i++ {
		send(m, msgs.NavigateMsg{Path: fmt.Sprintf("/somewhere/%d", i)})
	}
	assert.Len(t, m.history, maxHistoryDepth)
}

func TestRoot_UnknownRoute(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")
	send(m, msgs.NavigateMsg{Path: "/billing"})
	assert.IsType(t, &unavailablePage{}, m.page)
	assert.Contains(t, m.View(), "/billing is not available in the terminal client.")
}

func TestRoot_HelpOverlay(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")

	send(m, keyPress("?"))
	require.True(t, m.frame.HelpShowing())
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	send(m, keyPress("3"))
	assert.Equal(t, "/", m.path, "keys are swallowed while help shows")

	send(m, keyPress("esc"))
	assert.False(t, m.frame.HelpShowing())
}

func TestRoot_QuitKeys(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")
	assert.IsType(t, tea.QuitMsg{}, send(m, keyPress("q"))())
	assert.IsType(t, tea.QuitMsg{}, send(m, tea.KeyMsg{Type: tea.KeyCtrlC})())
}

func TestRoot_CapturingPageGetsKeys(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/runs")

	send(m, keyPress("/"))
	require.True(t, m.page.Capturing())

	cmd := send(m, keyPress("q"))
	for _, msg := range collect(t, cmd) {
		assert.NotEqual(t, tea.QuitMsg{}, msg)
	}
	send(m, keyPress("3"))
	assert.Equal(t, "/runs", m.path)
	assert.Equal(t, "q3", m.page.(*runsPage).search.Value())
}

func TestRoot_ChatFocusTakesKeys(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")

	pump(t, func(msg tea.Msg) tea.Cmd { return send(m, msg) }, send(m, keyPress("ctrl+k")))
	require.True(t, m.chat.Focused())

	send(m, keyPress("2"))
	assert.Equal(t, "/", m.path)
	assert.Equal(t, "2", m.chat.input.Value())

	send(m, keyPress("esc"))
	assert.Equal(t, chat.StateMinimized, m.chat.State())
	send(m, keyPress("2"))
	assert.Equal(t, "/actors", m.path)
}

func TestRoot_Toasts(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")

	send(m, msgs.ToastMsg{Text: "Saved"})
	assert.Contains(t, m.View(), "Saved")

	send(m, toastExpiredMsg{id: m.toastID - 1})
	assert.NotNil(t, m.toast, "expiry of an older toast")

	send(m, keyPress("x"))
	assert.Nil(t, m.toast)

	send(m, msgs.ToastMsg{Text: "Again"})
	send(m, toastExpiredMsg{id: m.toastID})
	assert.Nil(t, m.toast)
}

func TestRoot_BannerExpiry(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")

	require.NotNil(t, m.setBanner("first", chat.BannerTTL))
	firstID := m.bannerID
	m.setBanner("second", chat.BannerTTL)

	send(m, bannerExpiredMsg{id: firstID})
	assert.Equal(t, "second", m.banner, "a newer banner outlives the old timer")

	send(m, bannerExpiredMsg{id: m.bannerID})
	assert.Empty(t, m.banner)

	assert.Nil(t, m.setBanner("sticky", 0))
}

func TestRoot_ChatActionSchedulesEffects(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")

	cmd := send(m, ChatActionMsg{Action: chat.Navigate{Page: "runs", Message: "Opening runs"}})
	require.NotNil(t, cmd)
	assert.Equal(t, "Opening runs", m.banner, "banner shows at once")
	assert.Equal(t, "/", m.path, "navigation waits for its delay")

	for _, eff := range chat.Plan(chat.Navigate{Page: "runs"}) {
		send(m, effectMsg{effect: eff})
	}
	assert.Equal(t, "/runs", m.path)

	send(m, effectMsg{effect: chat.Effect{Kind: chat.EffectClearBanner}})
	assert.Empty(t, m.banner)
}

func TestRoot_ExportEffect(t *testing.T) {
	api := &fakeAPI{}
	m, _ := newTestRoot(t, api, "/")

	cmd := m.apply(chat.Effect{Kind: chat.EffectExport, RunID: "run-1", Format: "csv"})
	require.NotNil(t, cmd)
	msg := cmd()
	send(m, msg)
	assert.Equal(t, chat.ExportSucceeded, m.banner)
	assert.Equal(t, []string{"run:run-1:csv"}, api.downloads)

	api.exportErr = errors.New("gone")
	send(m, m.apply(chat.Effect{Kind: chat.EffectExport, RunID: "run-1", Format: "json"})())
	assert.Equal(t, chat.ExportFailed, m.banner)
}

func TestRoot_WindowSize(t *testing.T) {
	m, _ := newTestRoot(t, &fakeAPI{}, "/")
	send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.chat.width)
	assert.NotEmpty(t, m.View())
}
