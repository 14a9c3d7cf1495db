package format

import (
	"fmt"
	"strings"
	"time"

	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"

	"github.com/mattn/go-runewidth"
)

// Truncate shortens s to maxWidth terminal cells, adding "..." when cut.
func Truncate(s string, maxWidth int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Date formats a time in local time, or "-" for nil/zero.
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(table.DateFormat)
}

// Duration renders seconds as "42s", or "-" while unknown.
func Duration(seconds *int) string {
	if seconds == nil {
		return "-"
	}
	return fmt.Sprintf("%ds", *seconds)
}

// Cost renders usage in dollars.
func Cost(c float64) string {
	return fmt.Sprintf("$%.4f", c)
}

// Status renders a run status with a marker.
func Status(s string) string {
	switch s {
	case models.RunStatusSucceeded:
		return "✓ " + s
	case models.RunStatusFailed, models.RunStatusAborted:
		return "✗ " + s
	case models.RunStatusRunning:
		return "● " + s
	}
	return s
}

// Rating renders "4.8 (212)".
func Rating(a models.Actor) string {
	if a.RatingCount == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f (%d)", a.Rating, a.RatingCount)
}
