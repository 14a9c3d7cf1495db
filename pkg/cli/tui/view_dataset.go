package tui

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"scrapi-go/pkg/cli/client"
	"scrapi-go/pkg/cli/logger"
	"scrapi-go/pkg/cli/tui/msgs"
	"scrapi-go/pkg/fetch"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"
	"scrapi-go/pkg/utils"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// datasetPage browses the items of one run. Items are fetched whole, so
// search, sort, paging and column visibility all happen locally.
type datasetPage struct {
	deps
	runID   string
	gen     int64
	tracker *fetch.Tracker

	items    []models.DatasetItem
	filtered []models.DatasetItem
	columns  []table.Column[models.DatasetItem]
	hidden   map[string]bool
	sort     table.Sort
	page     int
	limit    int
	loaded   bool
	err      error

	dt        *DataTable[models.DatasetItem]
	search    textinput.Model
	searching bool
	step      int
	colCursor int
	exporting bool

	lead      *msgs.LeadChat
	leadInput textinput.Model
	md        *markdownRenderer
}

func newDatasetPage(d deps, runID string) *datasetPage {
	dt, err := NewDataTable([]table.Column[models.DatasetItem]{
		{Header: "title", Accessor: table.Field[models.DatasetItem]("title")},
	}, DataTableOptions{Sort: true, Paginate: true, Limit: true, RowSelect: true})
	if err != nil {
		panic(err)
	}
	dt.Table.Empty = table.EmptyState{Title: "No items", Description: "This run produced no results."}

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "any field"

	leadInput := textinput.New()
	leadInput.Prompt = "› "
	leadInput.Placeholder = "Ask about this lead..."
	leadInput.CharLimit = 1000

	return &datasetPage{
		deps:      d,
		runID:     runID,
		gen:       nextGen(),
		tracker:   fetch.NewTracker(d.ctx),
		hidden:    map[string]bool{},
		page:      1,
		limit:     table.NormalizeLimit(d.pageSize),
		dt:        dt,
		search:    search,
		leadInput: leadInput,
		md:        newMarkdownRenderer(d.theme, 76),
	}
}

func (p *datasetPage) Title() string       { return "Dataset " + utils.ShortID(p.runID) }
func (p *datasetPage) HelpContent() string { return DatasetHelpContent() }

func (p *datasetPage) Capturing() bool {
	return p.searching || p.step != msgs.StepBrowse || p.dt.Capturing()
}

func (p *datasetPage) SetSize(w, _ int) {
	p.dt.SetWidth(w)
	p.md.SetWordWrap(max(w-4, 20))
}

func (p *datasetPage) Close() { p.tracker.Stop() }

func (p *datasetPage) Init() tea.Cmd {
	return tea.Batch(p.dt.SetLoading(true), p.fetch())
}

func (p *datasetPage) fetch() tea.Cmd {
	ticket := p.tracker.Begin()
	api, runID, gen := p.api, p.runID, p.gen
	return func() tea.Msg {
		items, err := api.DatasetItems(ticket.Ctx, runID)
		return msgs.ItemsLoadedMsg{Gen: gen, Seq: ticket.Seq, Items: items, Err: err}
	}
}

// itemColumns builds one column per data key, title first.
func itemColumns(items []models.DatasetItem) []table.Column[models.DatasetItem] {
	keys := models.DataKeys(items)
	if i := slices.Index(keys, "title"); i > 0 {
		keys = append([]string{"title"}, slices.Delete(keys, i, i+1)...)
	}
	cols := make([]table.Column[models.DatasetItem], 0, len(keys))
	for _, k := range keys {
		w := 20
		if k == "title" || k == "address" {
			w = 28
		}
		cols = append(cols, table.Column[models.DatasetItem]{
			Header:   k,
			Accessor: table.Field[models.DatasetItem](k),
			Sortable: true,
			Width:    w,
		})
	}
	return cols
}

// compareValues orders numbers numerically and everything else as text.
func compareValues(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return cmp.Compare(af, bf)
	}
	return strings.Compare(strings.ToLower(table.FormatValue(a)), strings.ToLower(table.FormatValue(b)))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// refresh recomputes the filtered, sorted page and pushes it to the table.
func (p *datasetPage) refresh() {
	needle := strings.ToLower(strings.TrimSpace(p.search.Value()))
	filtered := make([]models.DatasetItem, 0, len(p.items))
	for _, it := range p.items {
		if it.Matches(needle) {
			filtered = append(filtered, it)
		}
	}
	if p.sort.By != "" {
		by, desc := p.sort.By, p.sort.Order == table.Desc
		slices.SortStableFunc(filtered, func(a, b models.DatasetItem) int {
			c := compareValues(a.Field(by), b.Field(by))
			if desc {
				return -c
			}
			return c
		})
	}
	p.filtered = filtered

	pag := table.NewPagination(p.page, p.limit, len(filtered))
	p.page = pag.Page
	p.dt.SetColumns(table.VisibleColumns(p.columns, p.hidden))
	p.dt.SetPagination(&pag)
	p.dt.SetSort(p.sort)
	p.dt.SetRows(table.Slice(filtered, pag))
}

func (p *datasetPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case msgs.ItemsLoadedMsg:
		if msg.Gen != p.gen || !p.tracker.Accept(msg.Seq) {
			return nil
		}
		if msg.Err != nil {
			p.dt.SetRows(nil)
			if client.IsCancelled(msg.Err) {
				return nil
			}
			p.err = msg.Err
			return errorToast("Failed to load dataset", msg.Err)
		}
		p.err = nil
		p.loaded = true
		p.items = msg.Items
		p.columns = itemColumns(msg.Items)
		p.refresh()
		return nil

	case SortMsg:
		if msg.ID != p.dt.ID() {
			return nil
		}
		p.sort = table.Sort{By: msg.By, Order: msg.Order}
		p.page = 1
		p.refresh()
		return nil

	case PageMsg:
		if msg.ID != p.dt.ID() {
			return nil
		}
		p.page = msg.Page
		p.refresh()
		return nil

	case LimitMsg:
		if msg.ID != p.dt.ID() {
			return nil
		}
		p.limit = msg.Limit
		p.page = 1
		p.refresh()
		return nil

	case RowSelectedMsg[models.DatasetItem]:
		if msg.ID != p.dt.ID() {
			return nil
		}
		return p.openLead(msg.Row)

	case msgs.ExportDoneMsg:
		p.exporting = false
		if msg.Err != nil {
			return errorToast("Export failed", msg.Err)
		}
		return toastCmd("✓ Exported to " + msg.Path)

	case msgs.LeadHistoryMsg:
		if p.lead == nil || p.lead.Lead.ID != msg.LeadID {
			return nil
		}
		p.lead.Loading = false
		if msg.Err != nil {
			return errorToast("Failed to load lead chat", msg.Err)
		}
		p.lead.Messages = append(msg.History, p.lead.Messages...)
		return nil

	case msgs.LeadReplyMsg:
		if p.lead == nil || p.lead.Lead.ID != msg.LeadID {
			return nil
		}
		if msg.Err != nil {
			p.lead.Fail()
			return errorToast("Lead chat failed", msg.Err)
		}
		p.lead.Reply(msg.Reply)
		return nil

	case msgs.OutreachMsg:
		if p.lead == nil || p.lead.Lead.ID != msg.LeadID {
			return nil
		}
		if msg.Err != nil {
			p.lead.Fail()
			return errorToast("Failed to generate template", msg.Err)
		}
		p.lead.Sending = false
		p.lead.AppendTemplate(msg.Channel, msg.Template)
		return nil

	case spinner.TickMsg:
		return p.dt.Update(msg)

	case tea.KeyMsg:
		switch p.step {
		case msgs.StepColumns:
			return p.updateColumns(msg)
		case msgs.StepLeadChat:
			return p.updateLeadChat(msg)
		}
		if p.searching {
			return p.updateSearch(msg)
		}
		if p.dt.Capturing() {
			return p.dt.Update(msg)
		}
		switch msg.String() {
		case "/":
			p.searching = true
			return p.search.Focus()
		case "c":
			if len(p.columns) > 0 {
				p.step = msgs.StepColumns
				p.colCursor = 0
			}
			return nil
		case "e":
			return p.export("json")
		case "E":
			return p.export("csv")
		case "r":
			return tea.Batch(p.dt.SetLoading(true), p.fetch())
		case "y":
			if item, ok := p.dt.Selected(); ok {
				data, err := json.MarshalIndent(item.Data, "", "  ")
				if err != nil {
					return errorToast("Copy failed", err)
				}
				return copyCmd("Item", string(data))
			}
			return nil
		}
		return p.dt.Update(msg)
	}
	return nil
}

func (p *datasetPage) export(format string) tea.Cmd {
	if p.exporting {
		return nil
	}
	p.exporting = true
	ctx, api, runID, dir := p.ctx, p.api, p.runID, p.exportDir
	logger.Info("dataset export requested", "run", runID, "format", format)
	return func() tea.Msg {
		path, err := api.DownloadDataset(ctx, runID, format, dir)
		return msgs.ExportDoneMsg{Path: path, Err: err}
	}
}

func (p *datasetPage) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		p.searching = false
		p.search.Blur()
		if msg.String() == "esc" {
			p.search.Reset()
		}
		p.page = 1
		p.refresh()
		return nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	// Filtering is local, so results follow every keystroke.
	p.page = 1
	p.refresh()
	return cmd
}

func (p *datasetPage) updateColumns(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if next, ok := handleListNavigation(key, p.colCursor, len(p.columns)); ok {
		p.colCursor = next
		return nil
	}
	switch key {
	case " ", "x":
		h := p.columns[p.colCursor].Header
		if !p.hidden[h] && len(table.VisibleColumns(p.columns, p.hidden)) == 1 {
			return toastCmd("At least one column must stay visible")
		}
		if p.hidden[h] {
			delete(p.hidden, h)
		} else {
			p.hidden[h] = true
		}
		p.refresh()
	case "a":
		p.hidden = map[string]bool{}
		p.refresh()
	case "esc", "enter", "c":
		p.step = msgs.StepBrowse
	}
	return nil
}

func (p *datasetPage) openLead(item models.DatasetItem) tea.Cmd {
	p.step = msgs.StepLeadChat
	p.lead = msgs.NewLeadChat(item)
	p.leadInput.Reset()
	ctx, api, id := p.ctx, p.api, item.ID
	return tea.Batch(p.leadInput.Focus(), func() tea.Msg {
		history, err := api.LeadChatHistory(ctx, id)
		return msgs.LeadHistoryMsg{LeadID: id, History: history, Err: err}
	})
}

func (p *datasetPage) updateLeadChat(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.step = msgs.StepBrowse
		p.lead = nil
		p.leadInput.Blur()
		return nil
	case "enter":
		text, ok := p.lead.Begin(p.leadInput.Value())
		if !ok {
			return nil
		}
		p.leadInput.Reset()
		ctx, api, lead := p.ctx, p.api, p.lead.Lead
		return func() tea.Msg {
			reply, err := api.SendLeadChat(ctx, lead.ID, text, lead.Data)
			return msgs.LeadReplyMsg{LeadID: lead.ID, Reply: reply, Err: err}
		}
	case "ctrl+t":
		return p.requestTemplate("email")
	case "ctrl+p":
		return p.requestTemplate("phone")
	}
	var cmd tea.Cmd
	p.leadInput, cmd = p.leadInput.Update(msg)
	return cmd
}

func (p *datasetPage) requestTemplate(channel string) tea.Cmd {
	if p.lead.Sending {
		return nil
	}
	p.lead.Sending = true
	ctx, api, id := p.ctx, p.api, p.lead.Lead.ID
	return func() tea.Msg {
		tmpl, err := api.OutreachTemplate(ctx, id, channel)
		return msgs.OutreachMsg{LeadID: id, Channel: channel, Template: tmpl, Err: err}
	}
}

func (p *datasetPage) View() string {
	switch p.step {
	case msgs.StepColumns:
		return p.viewColumns()
	case msgs.StepLeadChat:
		return p.viewLeadChat()
	}

	var b strings.Builder
	summary := fmt.Sprintf("%d items", len(p.items))
	if len(p.filtered) != len(p.items) {
		summary = fmt.Sprintf("%d of %d items match", len(p.filtered), len(p.items))
	}
	if n := len(p.hidden); n > 0 {
		summary += fmt.Sprintf(" · %d columns hidden", n)
	}
	b.WriteString(mutedStyle.Render(summary) + "\n")
	if p.searching || p.search.Value() != "" {
		b.WriteString(p.search.View() + "\n")
	}
	if p.err != nil && !p.loaded {
		b.WriteString(renderErrorView(p.err))
		return b.String()
	}
	b.WriteString(p.dt.View())
	if p.exporting {
		b.WriteString(infoStyle.Render("Exporting...") + "\n")
	}
	b.WriteString(helpStyle.Render("enter lead chat · / search · c columns · e/E export json/csv · y copy · ? help"))
	return b.String()
}

func (p *datasetPage) viewColumns() string {
	var b strings.Builder
	b.WriteString(boldStyle.Render("Visible columns") + "\n\n")
	for i, c := range p.columns {
		marker := " "
		if i == p.colCursor {
			marker = selectedMarkerStyle.Render("→")
		}
		check := "[x]"
		if p.hidden[c.Header] {
			check = "[ ]"
		}
		line := fmt.Sprintf("%s %s %s", marker, check, c.Header)
		if i == p.colCursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("space toggle · a show all · enter/esc done"))
	return b.String()
}

func (p *datasetPage) viewLeadChat() string {
	var b strings.Builder
	lead := p.lead.Lead
	b.WriteString(boldStyle.Render("Lead: "+lead.Title()) + "\n")
	for _, k := range models.DataKeys([]models.DatasetItem{lead}) {
		if k == "title" {
			continue
		}
		b.WriteString(renderField(k, table.FormatValue(lead.Data[k])))
	}
	b.WriteString(renderDivider(60) + "\n")

	if p.lead.Loading {
		b.WriteString(renderLoadingState("Loading conversation..."))
	}
	for _, m := range p.lead.Messages {
		if m.Role == "user" {
			b.WriteString(userBubbleStyle.Render("You") + "\n" + m.Content + "\n\n")
			continue
		}
		b.WriteString(assistantBubbleStyle.Render("Assistant") + "\n" + p.md.Render(m.Content) + "\n\n")
	}
	if p.lead.Sending {
		b.WriteString(infoStyle.Render("Thinking...") + "\n")
	}
	b.WriteString(p.leadInput.View() + "\n")
	b.WriteString(helpStyle.Render("enter send · ctrl+t email template · ctrl+p phone script · esc back"))
	return b.String()
}
