package tui

import (
	"strings"

	"scrapi-go/pkg/chat"
	"scrapi-go/pkg/cli/logger"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/models"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const chatPanelHeight = 14

type (
	chatHistoryMsg struct {
		history []models.ChatMessage
		err     error
	}
	chatReplyMsg struct {
		pending chat.Pending
		reply   *models.GlobalChatReply
		err     error
	}
	chatClearedMsg struct {
		err error
	}
	// ChatActionMsg carries a parsed assistant action to the root, which
	// schedules its effects.
	ChatActionMsg struct {
		Action chat.Action
	}
)

// chatWidget is the assistant panel docked under the active page. The
// conversation rules live in chat.Session; the widget does I/O and drawing.
type chatWidget struct {
	deps
	session *chat.Session

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	md       *markdownRenderer
	width    int
}

func newChatWidget(d deps) *chatWidget {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "Ask me to find scrapers, open runs or export data..."
	in.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	return &chatWidget{
		deps:     d,
		session:  chat.NewSession(),
		input:    in,
		viewport: viewport.New(msgs.DefaultWidth, chatPanelHeight-4),
		spinner:  sp,
		md:       newMarkdownRenderer(d.theme, msgs.DefaultWidth-6),
		width:    msgs.DefaultWidth,
	}
}

// Focused reports whether the panel is open and taking keystrokes.
func (w *chatWidget) Focused() bool {
	s := w.session.State()
	return s != chat.StateClosed && s != chat.StateMinimized
}

func (w *chatWidget) State() chat.State { return w.session.State() }

// Toggle handles the chat shortcut: a minimized panel is restored, otherwise
// the panel opens or closes.
func (w *chatWidget) Toggle() tea.Cmd {
	if w.session.State() == chat.StateMinimized {
		w.session.Restore()
		return w.input.Focus()
	}
	if !w.session.Toggle() {
		if w.Focused() {
			return w.input.Focus()
		}
		w.input.Blur()
		return nil
	}
	w.refresh()
	return tea.Batch(w.input.Focus(), w.spinner.Tick, w.fetchHistory())
}

func (w *chatWidget) fetchHistory() tea.Cmd {
	ctx, api, limit := w.ctx, w.api, w.historyLimit
	return func() tea.Msg {
		history, err := api.GlobalChatHistory(ctx, limit)
		return chatHistoryMsg{history: history, err: err}
	}
}

func (w *chatWidget) SetSize(width, _ int) {
	w.width = max(width, 20)
	w.viewport.Width = w.width - 4
	w.md.SetWordWrap(max(w.width-8, 20))
	w.refresh()
}

func (w *chatWidget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case chatHistoryMsg:
		if msg.err != nil {
			logger.LogError(msg.err, "failed to load chat history")
		}
		w.session.HistoryLoaded(msg.history, msg.err)
		w.refresh()
		return nil

	case chatReplyMsg:
		action, err := w.session.FinishSend(msg.pending, msg.reply, msg.err)
		w.refresh()
		if err != nil {
			logger.LogError(err, "chat reply")
		}
		if action == nil {
			return nil
		}
		logger.Info("chat action received", "kind", action.Kind())
		return func() tea.Msg { return ChatActionMsg{Action: action} }

	case chatClearedMsg:
		if msg.err != nil {
			return errorToast("Failed to clear chat history", msg.err)
		}
		return toastCmd("✓ Chat history cleared")

	case spinner.TickMsg:
		if msg.ID != w.spinner.ID() {
			return nil
		}
		s := w.session.State()
		if s != chat.StateAwaiting && s != chat.StateLoadingHistory {
			return nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if !w.Focused() {
			return nil
		}
		return w.updateKeys(msg)
	}
	return nil
}

func (w *chatWidget) updateKeys(msg tea.KeyMsg) tea.Cmd {
	if w.session.ConfirmingClear() {
		if msg.String() == "y" || msg.String() == "Y" {
			w.session.ConfirmClear()
			w.refresh()
			ctx, api := w.ctx, w.api
			return func() tea.Msg {
				return chatClearedMsg{err: api.ClearGlobalChatHistory(ctx)}
			}
		}
		w.session.CancelClear()
		return nil
	}

	switch msg.String() {
	case "esc":
		w.session.Minimize()
		w.input.Blur()
		return nil
	case "ctrl+x":
		w.session.Close()
		w.input.Reset()
		w.input.Blur()
		return nil
	case "ctrl+l":
		w.session.RequestClear()
		return nil
	case "ctrl+y":
		if reply, ok := w.session.LastReply(); ok {
			return copyCmd("Reply", reply)
		}
		return nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		w.viewport, cmd = w.viewport.Update(msg)
		return cmd
	case "enter":
		p, ok := w.session.BeginSend(w.input.Value())
		if !ok {
			return nil
		}
		w.input.Reset()
		w.refresh()
		ctx, api := w.ctx, w.api
		return tea.Batch(w.spinner.Tick, func() tea.Msg {
			reply, err := api.SendGlobalChat(ctx, p.Text)
			return chatReplyMsg{pending: p, reply: reply, err: err}
		})
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return cmd
}

// refresh re-renders the transcript and scrolls to the newest message.
func (w *chatWidget) refresh() {
	var b strings.Builder
	for _, m := range w.session.Messages() {
		if m.Role == chat.RoleUser {
			b.WriteString(userBubbleStyle.Render("You") + "  " + mutedStyle.Render(m.Timestamp.Local().Format("15:04")) + "\n")
			b.WriteString(m.Content + "\n\n")
			continue
		}
		b.WriteString(assistantBubbleStyle.Render("Assistant") + "  " + mutedStyle.Render(m.Timestamp.Local().Format("15:04")) + "\n")
		b.WriteString(w.md.Render(m.Content) + "\n\n")
	}
	w.viewport.SetContent(b.String())
	w.viewport.GotoBottom()
}

// View renders the open panel, or a one-line tab while minimized.
func (w *chatWidget) View() string {
	switch w.session.State() {
	case chat.StateClosed:
		return ""
	case chat.StateMinimized:
		return chatPanelStyle.Width(w.width - 2).Render("💬 Assistant (minimized) · ctrl+k to restore")
	}

	var b strings.Builder
	b.WriteString(boldStyle.Render("💬 Assistant") + "\n")
	switch {
	case w.session.State() == chat.StateLoadingHistory:
		b.WriteString(w.spinner.View() + " " + infoStyle.Render("Loading conversation...") + "\n")
	case len(w.session.Messages()) == 0:
		b.WriteString(mutedStyle.Render("Hi! Ask me to find a scraper, open your runs or export a dataset.") + "\n")
	default:
		b.WriteString(w.viewport.View() + "\n")
	}
	if w.session.InFlight() {
		b.WriteString(w.spinner.View() + " " + infoStyle.Render("Thinking...") + "\n")
	}
	if w.session.ConfirmingClear() {
		b.WriteString(renderWarning("Clear all chat history? (y/N)") + "\n")
	} else {
		b.WriteString(w.input.View() + "\n")
	}
	b.WriteString(helpStyle.Render("enter send · esc minimize · ctrl+x close · ctrl+l clear · ctrl+y copy reply"))
	return chatPanelStyle.Width(w.width - 2).Render(b.String())
}
