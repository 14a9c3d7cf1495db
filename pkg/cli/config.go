package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"scrapi-go/pkg/config"
	"scrapi-go/pkg/table"
	"scrapi-go/pkg/utils"

	"github.com/pelletier/go-toml/v2"
)

// ShowConfig writes the current configuration as TOML
func (a *App) ShowConfig(w io.Writer) error {
	data, err := toml.Marshal(a.sess.Config())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// SetConfig sets a configuration value
// Format: section.key=value (e.g., "api.base_url=https://...")
func (a *App) SetConfig(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(parts[0], ".")
	value := parts[1]

	if len(keyPath) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}

	section := keyPath[0]
	key := keyPath[1]
	cfg := a.sess.Config()

	switch section {
	case "api":
		switch key {
		case "base_url":
			normalized, err := utils.ValidateBaseURL(value)
			if err != nil {
				return err
			}
			cfg.API.BaseURL = normalized
		case "token":
			cfg.API.Token = value
			a.sess.SetToken(value)
		case "timeout_seconds":
			n, err := parsePositive(key, value)
			if err != nil {
				return err
			}
			cfg.API.TimeoutSeconds = n
		default:
			return fmt.Errorf("unknown api key: %s", key)
		}
	case "ui":
		switch key {
		case "page_size":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid page_size value: %s", value)
			}
			if err := utils.ValidateLimit(n, table.Limits); err != nil {
				return err
			}
			cfg.UI.PageSize = n
		case "poll_interval_seconds":
			n, err := parsePositive(key, value)
			if err != nil {
				return err
			}
			cfg.UI.PollIntervalSeconds = n
		case "history_limit":
			n, err := parsePositive(key, value)
			if err != nil {
				return err
			}
			cfg.UI.HistoryLimit = n
		case "theme":
			switch value {
			case "auto", "dark", "light":
				cfg.UI.Theme = value
			default:
				return fmt.Errorf("invalid theme value: %s (auto, dark or light)", value)
			}
		case "last_path":
			cfg.UI.LastPath = value
			a.sess.SetLastPath(value)
		default:
			return fmt.Errorf("unknown ui key: %s", key)
		}
	case "export":
		switch key {
		case "dir":
			cfg.Export.Dir = value
		default:
			return fmt.Errorf("unknown export key: %s", key)
		}
	case "log":
		switch key {
		case "dir":
			cfg.Log.Dir = value
		case "level":
			cfg.Log.Level = value
		default:
			return fmt.Errorf("unknown log key: %s", key)
		}
	case "mock":
		switch key {
		case "host":
			cfg.Mock.Host = value
		case "port":
			n, err := parsePositive(key, value)
			if err != nil {
				return err
			}
			cfg.Mock.Port = n
		default:
			return fmt.Errorf("unknown mock key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	if a.sess.Path() == "" {
		return config.Save(cfg)
	}
	return config.SaveTo(cfg, a.sess.Path())
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s value: %s", key, value)
	}
	return n, nil
}
