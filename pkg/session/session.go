// Package session holds the application context shared by the CLI and TUI:
// the loaded configuration, the bearer token and the last visited route.
package session

import (
	"fmt"
	"sync"

	"scrapi-go/pkg/config"
)

// Session is created once at the composition root and passed down.
type Session struct {
	mu       sync.RWMutex
	cfg      *config.Config
	path     string
	lastPath string
	token    string
}

// Start loads the config at path (or the default path when empty).
func Start(path string) (*Session, error) {
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg, path), nil
}

// New wraps an already loaded config. An empty path makes End a no-op.
func New(cfg *config.Config, path string) *Session {
	return &Session{
		cfg:      cfg,
		path:     path,
		token:    cfg.API.Token,
		lastPath: cfg.UI.LastPath,
	}
}

func (s *Session) Config() *config.Config { return s.cfg }

// Path is the config file the session persists to.
func (s *Session) Path() string { return s.path }

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// LastPath returns the last visited route, or "/" when none was recorded.
func (s *Session) LastPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastPath == "" {
		return "/"
	}
	return s.lastPath
}

func (s *Session) SetLastPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPath = path
}

// End writes the token and last path back to the config file.
func (s *Session) End() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	s.cfg.API.Token = s.token
	s.cfg.UI.LastPath = s.lastPath
	s.mu.RUnlock()
	if err := config.SaveTo(s.cfg, s.path); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
