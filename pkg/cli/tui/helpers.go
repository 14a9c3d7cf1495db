package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"scrapi-go/pkg/cli/client"
	"scrapi-go/pkg/cli/logger"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/models"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// API is the backend surface the TUI uses. *client.Client implements it.
type API interface {
	ListRuns(ctx context.Context, q models.RunsQuery) (*models.RunsPage, error)
	DatasetItems(ctx context.Context, runID string) ([]models.DatasetItem, error)
	DownloadDataset(ctx context.Context, runID, format, dir string) (string, error)
	DownloadRunExport(ctx context.Context, runID, format, dir string) (string, error)
	ListActors(ctx context.Context) ([]models.Actor, error)
	GetActor(ctx context.Context, id string) (*models.Actor, error)
	CreateActor(ctx context.Context, draft models.ActorCreate) (*models.Actor, error)
	ForkActor(ctx context.Context, id string) (*models.Actor, error)
	Marketplace(ctx context.Context, q models.MarketplaceQuery) ([]models.Actor, error)
	SendGlobalChat(ctx context.Context, message string) (*models.GlobalChatReply, error)
	GlobalChatHistory(ctx context.Context, limit int) ([]models.ChatMessage, error)
	ClearGlobalChatHistory(ctx context.Context) error
	SendLeadChat(ctx context.Context, leadID, message string, leadData map[string]any) (string, error)
	LeadChatHistory(ctx context.Context, leadID string) ([]models.ChatMessage, error)
	OutreachTemplate(ctx context.Context, leadID, channel string) (string, error)
}

var _ API = (*client.Client)(nil)

// deps are shared by every page.
type deps struct {
	ctx          context.Context
	api          API
	pageSize     int
	pollInterval int
	historyLimit int
	exportDir    string
	theme        string
}

var pageGens atomic.Int64

// nextGen returns a generation number unique to one page instance.
func nextGen() int64 { return pageGens.Add(1) }

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// copyCmd copies text and reports the outcome as a toast.
func copyCmd(label, text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			logger.LogError(err, "clipboard copy failed")
			return msgs.ToastMsg{Text: "Copy failed: " + err.Error(), Err: true}
		}
		return msgs.ToastMsg{Text: label + " copied to clipboard"}
	}
}

func toastCmd(text string) tea.Cmd {
	return func() tea.Msg { return msgs.ToastMsg{Text: text} }
}

// errorToast logs err and returns a toast carrying the friendliest message
// available, such as the backend's detail.
func errorToast(action string, err error) tea.Cmd {
	logger.LogError(err, "%s", action)
	text := fmt.Sprintf("%s: %s", action, userFacingError(err))
	return func() tea.Msg { return msgs.ToastMsg{Text: text, Err: true} }
}

func navigateCmd(path string) tea.Cmd {
	return func() tea.Msg { return msgs.NavigateMsg{Path: path} }
}

// userFacingError converts structured API errors into friendly messages,
// while leaving other error types unchanged.
func userFacingError(err error) string {
	if err == nil {
		return ""
	}
	return client.UserMessage(err)
}

// renderErrorView renders a standard error view
func renderErrorView(err error) string {
	return "\n" + renderError(fmt.Sprintf("Error: %s", userFacingError(err))) + "\n\n" +
		helpStyle.Render("Press r to retry or esc to go back.") + "\n"
}

// renderLoadingState renders a standard loading message
func renderLoadingState(message string) string {
	return "\n" + infoStyle.Render(message) + "\n"
}

// renderField renders one "Label: value" line
func renderField(label, value string) string {
	if value == "" {
		value = mutedStyle.Render("(not set)")
	}
	return fieldLabelStyle.Render(label+":") + " " + value + "\n"
}

// wrapText wraps text to a specified width, breaking at word boundaries
func wrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + "\n"
	}

	var b strings.Builder
	line := ""
	for _, word := range words {
		if len(line)+len(word)+1 > width {
			b.WriteString(fmt.Sprintf("%s%s\n", indent, line))
			line = word
		} else {
			if line != "" {
				line += " "
			}
			line += word
		}
	}
	if line != "" {
		b.WriteString(fmt.Sprintf("%s%s\n", indent, line))
	}
	return b.String()
}

// handleListNavigation handles common navigation keys for list views (up/down/j/k)
// Returns the new selected index and whether navigation occurred
func handleListNavigation(key string, selected int, total int) (newSelected int, handled bool) {
	switch key {
	case "up", "k":
		if selected > 0 {
			return selected - 1, true
		}
		return selected, true
	case "down", "j":
		if selected < total-1 {
			return selected + 1, true
		}
		return selected, true
	}
	return selected, false
}
