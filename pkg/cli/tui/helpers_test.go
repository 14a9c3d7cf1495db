package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

// fakeAPI serves canned data and records what the pages asked for.
type fakeAPI struct {
	mu sync.Mutex

	runs      []models.Run
	runsErr   error
	runsCalls []models.RunsQuery

	items     []models.DatasetItem
	downloads []string
	exportErr error

	actors []models.Actor

	reply        *models.GlobalChatReply
	chatErr      error
	sent         []string
	history      []models.ChatMessage
	historyCalls int
	cleared      int

	leadReply string
	templates []string
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) ListRuns(_ context.Context, q models.RunsQuery) (*models.RunsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runsCalls = append(f.runsCalls, q)
	if f.runsErr != nil {
		return nil, f.runsErr
	}
	pag := table.NewPagination(q.Page, q.Limit, len(f.runs))
	return &models.RunsPage{
		Runs:       table.Slice(f.runs, pag),
		Total:      len(f.runs),
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: pag.TotalPages,
	}, nil
}

func (f *fakeAPI) DatasetItems(context.Context, string) ([]models.DatasetItem, error) {
	return f.items, nil
}

func (f *fakeAPI) DownloadDataset(_ context.Context, runID, format, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, "dataset:"+format)
	if f.exportErr != nil {
		return "", f.exportErr
	}
	return fmt.Sprintf("%s/dataset_%s.%s", dir, runID, format), nil
}

func (f *fakeAPI) DownloadRunExport(_ context.Context, runID, format, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, "run:"+runID+":"+format)
	if f.exportErr != nil {
		return "", f.exportErr
	}
	return fmt.Sprintf("%s/run_%s.%s", dir, runID, format), nil
}

func (f *fakeAPI) ListActors(context.Context) ([]models.Actor, error) { return f.actors, nil }

func (f *fakeAPI) GetActor(_ context.Context, id string) (*models.Actor, error) {
	for _, a := range f.actors {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, errors.New("actor not found")
}

func (f *fakeAPI) CreateActor(_ context.Context, draft models.ActorCreate) (*models.Actor, error) {
	return &models.Actor{ID: "new-actor", Name: draft.Name}, nil
}

func (f *fakeAPI) ForkActor(_ context.Context, id string) (*models.Actor, error) {
	return &models.Actor{ID: id + "-fork", Name: "Copy of " + id}, nil
}

func (f *fakeAPI) Marketplace(context.Context, models.MarketplaceQuery) ([]models.Actor, error) {
	return f.actors, nil
}

func (f *fakeAPI) SendGlobalChat(_ context.Context, message string) (*models.GlobalChatReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, message)
	return f.reply, f.chatErr
}

func (f *fakeAPI) GlobalChatHistory(context.Context, int) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	return f.history, nil
}

func (f *fakeAPI) ClearGlobalChatHistory(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

func (f *fakeAPI) SendLeadChat(context.Context, string, string, map[string]any) (string, error) {
	return f.leadReply, nil
}

func (f *fakeAPI) LeadChatHistory(context.Context, string) ([]models.ChatMessage, error) {
	return nil, nil
}

func (f *fakeAPI) OutreachTemplate(_ context.Context, _, channel string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates = append(f.templates, channel)
	return "Hello from " + channel, nil
}

func testDeps(api API) deps {
	return deps{
		ctx:          context.Background(),
		api:          api,
		pageSize:     10,
		pollInterval: 0,
		historyLimit: 50,
		exportDir:    "out",
		theme:        "dark",
	}
}

// collect runs cmd and returns the messages it produced, flattening batches.
// Commands that block on a timer (spinner ticks, cursor blinks, polls) are
// abandoned.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(50 * time.Millisecond):
		return nil
	}
	switch m := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// only returns the messages of type T.
func only[T any](in []tea.Msg) []T {
	var out []T
	for _, m := range in {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// pump feeds every produced message back into update until nothing new
// comes out.
func pump(t *testing.T, update func(tea.Msg) tea.Cmd, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := collect(t, cmd)
	for i := 0; len(queue) > 0 && i < 50; i++ {
		msg := queue[0]
		queue = queue[1:]
		seen = append(seen, msg)
		queue = append(queue, collect(t, update(msg))...)
	}
	return seen
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+v":
		return tea.KeyMsg{Type: tea.KeyCtrlV}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(update func(tea.Msg) tea.Cmd, text string) {
	for _, r := range text {
		update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestCopyCmd(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var copied string
	writeClipboard = func(s string) error { copied = s; return nil }
	msg := copyCmd("Run id", "run-1")()
	assert.Equal(t, msgs.ToastMsg{Text: "Run id copied to clipboard"}, msg)
	assert.Equal(t, "run-1", copied)

	writeClipboard = func(string) error { return errors.New("no display") }
	msg = copyCmd("Run id", "run-1")()
	assert.Equal(t, msgs.ToastMsg{Text: "Copy failed: no display", Err: true}, msg)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "  one two\n  three\n", wrapText("one two three", 8, "  "))
	assert.Equal(t, "  \n", wrapText("   ", 8, "  "))
}
