package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateBaseURL trims and validates the backend base URL, returning a
// normalized value without a trailing slash.
func ValidateBaseURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL: missing host")
	}
	return strings.TrimSuffix(s, "/"), nil
}

// ValidateExportFormat normalizes an export format, defaulting to json.
func ValidateExportFormat(raw string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(raw))
	switch f {
	case "":
		return "json", nil
	case "json", "csv":
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q: use json or csv", raw)
}

// ValidateChannel normalizes an outreach channel.
func ValidateChannel(raw string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(raw))
	switch c {
	case "email", "phone":
		return c, nil
	}
	return "", fmt.Errorf("unsupported outreach channel %q: use email or phone", raw)
}

// ShortID returns the first eight characters of an id followed by "...".
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

// ValidateLimit checks a page size against the allowed limits.
func ValidateLimit(limit int, allowed []int) error {
	for _, a := range allowed {
		if limit == a {
			return nil
		}
	}
	return fmt.Errorf("invalid limit %d: must be one of %v", limit, allowed)
}
