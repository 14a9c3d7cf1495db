package cli

import (
	"context"
	"fmt"
	"time"

	"scrapi-go/pkg/cli/client"
	"scrapi-go/pkg/cli/logger"
	"scrapi-go/pkg/cli/tui"
	"scrapi-go/pkg/session"
	"scrapi-go/pkg/utils"

	tea "github.com/charmbracelet/bubbletea"
)

type App struct {
	sess   *session.Session
	client *client.Client
}

func NewApp(sess *session.Session) *App {
	return &App{
		sess: sess,
	}
}

// start loads the session and opens the log file. It is a no-op when a
// session was injected.
func (a *App) start(configPath string) error {
	if a.sess == nil {
		sess, err := session.Start(configPath)
		if err != nil {
			return err
		}
		a.sess = sess
	}

	cfg := a.sess.Config()
	if _, err := logger.Init(cfg.Log.Dir, cfg.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("session started", "config", a.sess.Path(), "base_url", cfg.API.BaseURL)
	return nil
}

// stop persists the session and closes the log file.
func (a *App) stop() error {
	defer logger.CloseLog()
	if a.sess == nil {
		return nil
	}
	if err := a.sess.End(); err != nil {
		logger.LogError(err, "failed to persist session")
		return err
	}
	return nil
}

// getClient returns the HTTP client, creating it if necessary
func (a *App) getClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	cfg := a.sess.Config()
	baseURL, err := utils.ValidateBaseURL(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("API base URL not configured: %w", err)
	}
	token := a.sess.Token()
	if token == "" {
		return nil, fmt.Errorf("API token not configured, run: scrapi config set api.token=<token>")
	}

	a.client = client.NewClient(baseURL, token,
		client.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second))
	return a.client, nil
}

// Run starts the interactive TUI at the last visited route.
func (a *App) Run(ctx context.Context) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	model := tui.NewRootModel(ctx, a.sess, apiClient)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
