package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"scrapi-go/pkg/chat"
	"scrapi-go/pkg/cli/format"
	"scrapi-go/pkg/cli/logger"
)

// printer shows chat effects on a plain terminal. Navigation only tells the
// user where the TUI would go.
type printer struct {
	w io.Writer
}

func (p printer) Navigate(path string) {
	_, _ = fmt.Fprintf(p.w, "→ %s (open it with: scrapi --path %s)\n", path, path)
}

func (p printer) Notify(text string, _ time.Duration) {
	_, _ = fmt.Fprintln(p.w, text)
}

func (p printer) Clear() {}

// Chat sends one message to the assistant, prints the reply and carries out
// its action.
func (a *App) Chat(ctx context.Context, w io.Writer, message string) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	s := chat.NewSession()
	action, sent, err := s.Send(ctx, apiClient, message)
	if !sent {
		return errors.New("message is empty")
	}
	if reply, ok := s.LastReply(); ok {
		_, _ = fmt.Fprintln(w, reply)
	}
	if err != nil {
		// The reply text is already shown; the error only goes to the log.
		logger.LogError(err, "chat reply not applied")
		return nil
	}

	out := printer{w: w}
	exec := &chat.Executor{
		Navigator:  out,
		Downloader: apiClient,
		Notifier:   out,
		ExportDir:  a.sess.Config().Export.Dir,
	}
	return exec.Run(ctx, chat.Plan(action))
}

// ChatHistory prints the stored global chat history.
func (a *App) ChatHistory(ctx context.Context, w io.Writer, limit int) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = a.sess.Config().UI.HistoryLimit
	}
	history, err := apiClient.GlobalChatHistory(ctx, limit)
	if err != nil {
		return fmt.Errorf("error fetching chat history: %w", err)
	}
	format.ChatHistory(w, history)
	return nil
}

// ClearChatHistory deletes the stored global chat history.
func (a *App) ClearChatHistory(ctx context.Context, w io.Writer) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	if err := apiClient.ClearGlobalChatHistory(ctx); err != nil {
		return fmt.Errorf("error clearing chat history: %w", err)
	}
	_, err = fmt.Fprintln(w, format.SuccessMessage("Chat history cleared"))
	return err
}
