// Package format renders backend resources as plain-terminal tables for the
// non-interactive commands.
package format

import (
	"fmt"
	"io"
	"strings"

	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"
	"scrapi-go/pkg/utils"

	"github.com/jedib0t/go-pretty/v6/text"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

const cellWidth = 40

func newWriter(w io.Writer) prettytable.Writer {
	t := prettytable.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(prettytable.StyleLight)
	return t
}

// Runs writes a page of runs followed by a page summary.
func Runs(w io.Writer, page *models.RunsPage) {
	if page == nil || len(page.Runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs found.")
		return
	}

	t := newWriter(w)
	t.AppendHeader(prettytable.Row{"ID", "Status", "Task", "Results", "Started", "Duration", "Usage"})
	t.SetColumnConfigs([]prettytable.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	for _, r := range page.Runs {
		t.AppendRow(prettytable.Row{
			utils.ShortID(r.ID),
			Status(r.Status),
			Truncate(r.Task(), cellWidth),
			r.ResultsCount,
			Date(r.StartedAt),
			Duration(r.DurationSeconds),
			Cost(r.Cost),
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "Page %d of %d (%d runs)\n", page.Page, max(page.TotalPages, 1), page.Total)
}

// Items writes dataset items with one column per data key.
func Items(w io.Writer, items []models.DatasetItem) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No items in this dataset.")
		return
	}

	keys := models.DataKeys(items)
	header := prettytable.Row{"#"}
	for _, k := range keys {
		header = append(header, k)
	}

	t := newWriter(w)
	// Data keys are shown as scraped.
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(header)
	for i, it := range items {
		row := prettytable.Row{i + 1}
		for _, k := range keys {
			row = append(row, Truncate(table.FormatValue(it.Data[k]), cellWidth))
		}
		t.AppendRow(row)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d items)\n", len(items))
}

// Actors writes marketplace or owned actors.
func Actors(w io.Writer, actors []models.Actor) {
	if len(actors) == 0 {
		_, _ = fmt.Fprintln(w, "No actors found.")
		return
	}

	t := newWriter(w)
	t.AppendHeader(prettytable.Row{"ID", "Name", "Category", "Runs", "Rating", ""})
	for _, a := range actors {
		badge := ""
		if a.IsFeatured {
			badge = "★"
		}
		t.AppendRow(prettytable.Row{
			utils.ShortID(a.ID),
			Truncate(a.Name, cellWidth),
			a.Category,
			a.RunsCount,
			Rating(a),
			badge,
		})
	}
	t.Render()
}

// ActorDetails writes a single actor as label/value lines.
func ActorDetails(w io.Writer, a *models.Actor) {
	t := newWriter(w)
	t.SetStyle(prettytable.StyleRounded)
	t.AppendRows([]prettytable.Row{
		{"ID", a.ID},
		{"Name", a.Name},
		{"Category", a.Category},
		{"Visibility", a.Visibility},
		{"Status", a.Status},
		{"Version", a.Version},
	})
	if a.ForkFrom != nil {
		t.AppendRow(prettytable.Row{"Forked from", *a.ForkFrom})
	}
	t.Render()
}

// ChatHistory writes a chat transcript, oldest first.
func ChatHistory(w io.Writer, msgs []models.ChatMessage) {
	if len(msgs) == 0 {
		_, _ = fmt.Fprintln(w, "No chat history.")
		return
	}
	for _, m := range msgs {
		_, _ = fmt.Fprintf(w, "[%s] %s:\n%s\n\n", Date(&m.CreatedAt), roleLabel(m.Role), m.Content)
	}
}

func roleLabel(role string) string {
	if role == "" {
		return "Unknown"
	}
	return strings.ToUpper(role[:1]) + role[1:]
}

// SuccessMessage formats a one-line success notice.
func SuccessMessage(format string, a ...any) string {
	return "✓ " + fmt.Sprintf(format, a...)
}

// ErrorMessage formats an error consistently.
func ErrorMessage(err error) string {
	return fmt.Sprintf("❌ Error: %v", err)
}
