package tui

import (
	"strings"

	"scrapi-go/pkg/models"

	"github.com/charmbracelet/lipgloss"
)

// Define a consistent color palette
var (
	// Colors
	colorPrimary   = lipgloss.Color("62")  // Purple/blue
	colorSecondary = lipgloss.Color("244") // Gray
	colorSuccess   = lipgloss.Color("42")  // Green
	colorError     = lipgloss.Color("196") // Red
	colorWarning   = lipgloss.Color("214") // Orange/Yellow
	colorInfo      = lipgloss.Color("39")  // Cyan
	colorMuted     = lipgloss.Color("240") // Dark gray
	colorBorder    = lipgloss.Color("238") // Border gray
	colorText      = lipgloss.Color("252")
)

// Reusable style definitions
var (
	// Title/Header styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	// Text styles
	boldStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Status styles
	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorInfo)

	idStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	// Field label styles
	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginRight(2)

	// List/item styles
	selectedStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	selectedMarkerStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// Divider
	dividerStyle = lipgloss.NewStyle().
			Foreground(colorBorder)

	// Help text
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	// Navigation bar
	navItemStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Padding(0, 1)

	navActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(colorPrimary).
			Bold(true).
			Padding(0, 1)

	// Banner shown by chat actions
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("29")).
			Bold(true).
			Padding(0, 1)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorInfo).
			Padding(0, 1)

	toastErrorStyle = toastStyle.
			BorderForeground(colorError).
			Foreground(colorError)

	// Chat panel
	chatPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(colorInfo).
			Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	// Table
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(0, 1)

	tableFocusHeaderStyle = tableHeaderStyle.
				Underline(true).
				Foreground(colorWarning)

	tableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	tableCursorStyle = tableCellStyle.
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("237")).
				Bold(true)

	tableDisabledStyle = tableCellStyle.
				Foreground(colorMuted)
)

// Helper functions for common formatting patterns
func renderTitle(title string) string {
	return "\n" + titleStyle.Render(title) + "\n"
}

func renderSuccess(msg string) string {
	return successStyle.Render("✓ " + msg)
}

func renderError(msg string) string {
	return errorStyle.Render("❌ " + msg)
}

func renderWarning(msg string) string {
	return warningStyle.Render("⚠ " + msg)
}

func renderDivider(length int) string {
	return dividerStyle.Render(strings.Repeat("─", length))
}

// renderStatus colors a run status
func renderStatus(status string) string {
	switch status {
	case models.RunStatusSucceeded:
		return successStyle.Render("✓ " + status)
	case models.RunStatusFailed, models.RunStatusAborted:
		return errorStyle.Render("✗ " + status)
	case models.RunStatusRunning:
		return infoStyle.Render("● " + status)
	}
	return mutedStyle.Render(status)
}
