package tui

import (
	"errors"
	"testing"

	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leadItems() []models.DatasetItem {
	return []models.DatasetItem{
		{ID: "i1", RunID: "run-1", Data: map[string]any{"title": "Blue Bakery", "rating": 4.5, "phone": "555-0101", "address": "1 Main St"}},
		{ID: "i2", RunID: "run-1", Data: map[string]any{"title": "Corner Cafe", "rating": 3.9, "phone": "555-0102", "address": "2 Oak Ave"}},
		{ID: "i3", RunID: "run-1", Data: map[string]any{"title": "Bagel Barn", "rating": 10.0, "phone": "555-0103", "address": "3 Elm Rd"}},
	}
}

func loadedDatasetPage(t *testing.T, api *fakeAPI) *datasetPage {
	t.Helper()
	p := newDatasetPage(testDeps(api), "run-1")
	pump(t, p.Update, p.Init())
	require.True(t, p.loaded)
	return p
}

func rowTitles(p *datasetPage) []string {
	var out []string
	for _, r := range p.dt.Table.Rows {
		out = append(out, r.Title())
	}
	return out
}

func TestItemColumns_TitleFirst(t *testing.T) {
	cols := itemColumns(leadItems())
	var headers []string
	for _, c := range cols {
		headers = append(headers, c.Header)
	}
	assert.Equal(t, []string{"title", "address", "phone", "rating"}, headers)
}

func TestCompareValues(t *testing.T) {
	assert.Negative(t, compareValues(3.9, 10.0), "numbers compare numerically")
	assert.Negative(t, compareValues("apple", "Banana"), "text compares case-insensitively")
	assert.Zero(t, compareValues(2, 2.0))
}

func TestDatasetPage_LoadAndSort(t *testing.T) {
	p := loadedDatasetPage(t, &fakeAPI{items: leadItems()})
	assert.Equal(t, []string{"Blue Bakery", "Corner Cafe", "Bagel Barn"}, rowTitles(p))
	assert.Contains(t, p.View(), "3 items")

	p.Update(SortMsg{ID: p.dt.ID(), By: "rating", Order: table.Asc})
	assert.Equal(t, []string{"Corner Cafe", "Blue Bakery", "Bagel Barn"}, rowTitles(p))

	p.Update(SortMsg{ID: p.dt.ID(), By: "title", Order: table.Desc})
	assert.Equal(t, []string{"Corner Cafe", "Blue Bakery", "Bagel Barn"}, rowTitles(p))

	p.Update(SortMsg{ID: p.dt.ID() + 1000, By: "title", Order: table.Asc})
	assert.Equal(t, "title", p.sort.By)
	assert.Equal(t, table.Desc, p.sort.Order, "events from another table are ignored")
}

func TestDatasetPage_LocalPaging(t *testing.T) {
	p := loadedDatasetPage(t, &fakeAPI{items: leadItems()})

	p.Update(LimitMsg{ID: p.dt.ID(), Limit: 10})
	require.NotNil(t, p.dt.Table.Pagination)
	assert.Equal(t, 1, p.dt.Table.Pagination.TotalPages)

	// Out of range pages clamp to the last one.
	p.Update(PageMsg{ID: p.dt.ID(), Page: 7})
	assert.Equal(t, 1, p.page)
	assert.Len(t, p.dt.Table.Rows, 3)
}

func TestDatasetPage_SearchFiltersLive(t *testing.T) {
	p := loadedDatasetPage(t, &fakeAPI{items: leadItems()})

	p.Update(keyPress("/"))
	require.True(t, p.Capturing())
	typeText(p.Update, "ba")
	assert.Equal(t, []string{"Blue Bakery", "Bagel Barn"}, rowTitles(p))
	assert.Contains(t, p.View(), "2 of 3 items match")

	p.Update(keyPress("enter"))
	assert.False(t, p.Capturing())
	assert.Len(t, p.dt.Table.Rows, 2, "enter keeps the filter")

	p.Update(keyPress("/"))
	p.Update(keyPress("esc"))
	assert.Len(t, p.dt.Table.Rows, 3, "esc clears the filter")
}

func TestDatasetPage_ColumnPicker(t *testing.T) {
	p := loadedDatasetPage(t, &fakeAPI{items: leadItems()})

	p.Update(keyPress("c"))
	require.Equal(t, msgs.StepColumns, p.step)

	p.Update(keyPress("space"))
	assert.Len(t, p.dt.Table.Columns, 3)
	assert.Equal(t, "address", p.dt.Table.Columns[0].Header)

	p.Update(keyPress("down"))
	p.Update(keyPress("space"))
	p.Update(keyPress("down"))
	p.Update(keyPress("space"))
	require.Len(t, p.dt.Table.Columns, 1)

	p.Update(keyPress("down"))
	got := only[msgs.ToastMsg](collect(t, p.Update(keyPress("space"))))
	require.Len(t, got, 1)
	assert.Equal(t, "At least one column must stay visible", got[0].Text)
	assert.Len(t, p.dt.Table.Columns, 1)

	p.Update(keyPress("up"))
	p.Update(keyPress("space"))
	assert.Len(t, p.dt.Table.Columns, 2)
	assert.Len(t, p.hidden, 2)

	p.Update(keyPress("a"))
	assert.Len(t, p.dt.Table.Columns, 4)

	p.Update(keyPress("esc"))
	assert.Equal(t, msgs.StepBrowse, p.step)
}

func TestDatasetPage_Export(t *testing.T) {
	api := &fakeAPI{items: leadItems()}
	p := loadedDatasetPage(t, api)

	cmd := p.Update(keyPress("e"))
	require.NotNil(t, cmd)
	assert.Nil(t, p.Update(keyPress("E")), "one export at a time")

	got := only[msgs.ToastMsg](pump(t, p.Update, cmd))
	require.Len(t, got, 1)
	assert.Equal(t, "✓ Exported to out/dataset_run-1.json", got[0].Text)
	assert.Equal(t, []string{"dataset:json"}, api.downloads)

	api.exportErr = errors.New("disk full")
	got = only[msgs.ToastMsg](pump(t, p.Update, p.Update(keyPress("E"))))
	require.Len(t, got, 1)
	assert.True(t, got[0].Err)
	assert.Equal(t, "Export failed: disk full", got[0].Text)
}

func TestDatasetPage_LeadChat(t *testing.T) {
	api := &fakeAPI{items: leadItems(), leadReply: "They open at 7am."}
	p := loadedDatasetPage(t, api)

	pump(t, p.Update, p.Update(RowSelectedMsg[models.DatasetItem]{ID: p.dt.ID(), Row: leadItems()[0]}))
	require.Equal(t, msgs.StepLeadChat, p.step)
	require.NotNil(t, p.lead)
	assert.False(t, p.lead.Loading)

	typeText(p.Update, "When do they open?")
	pump(t, p.Update, p.Update(keyPress("enter")))
	require.Len(t, p.lead.Messages, 2)
	assert.Equal(t, "When do they open?", p.lead.Messages[0].Content)
	assert.Equal(t, "They open at 7am.", p.lead.Messages[1].Content)

	pump(t, p.Update, p.Update(keyPress("ctrl+t")))
	require.Len(t, p.lead.Messages, 3)
	assert.Equal(t, msgs.TemplateMessage("email", "Hello from email"), p.lead.Messages[2].Content)
	assert.Equal(t, []string{"email"}, api.templates)

	// Replies for a lead that is no longer open are dropped.
	p.Update(keyPress("esc"))
	assert.Equal(t, msgs.StepBrowse, p.step)
	assert.Nil(t, p.Update(msgs.LeadReplyMsg{LeadID: "i1", Reply: "late"}))
}
