package msgs

import (
	"scrapi-go/pkg/models"
)

// NavigateMsg asks the router to open a route
type NavigateMsg struct {
	Path string
}

// BackMsg asks the router to return to the previous route
type BackMsg struct{}

// ToastMsg shows a dismissible notice at the bottom of the screen
type ToastMsg struct {
	Text string
	Err  bool
}

// PollTickMsg is emitted by a page's refresh timer. Gen identifies the page
// instance that scheduled it.
type PollTickMsg struct {
	Gen int64
}

// RunsLoadedMsg is emitted when a runs page has been fetched
type RunsLoadedMsg struct {
	Gen  int64
	Seq  uint64
	Page *models.RunsPage
	Err  error
}

// DashboardLoadedMsg is emitted when the dashboard fetches complete
type DashboardLoadedMsg struct {
	Gen      int64
	Runs     []models.Run
	Featured []models.Actor
	Err      error
}

// ItemsLoadedMsg is emitted when dataset items have been fetched
type ItemsLoadedMsg struct {
	Gen   int64
	Seq   uint64
	Items []models.DatasetItem
	Err   error
}

// ExportDoneMsg is emitted when a dataset download finishes
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ActorsLoadedMsg is emitted when the actor list or marketplace has been fetched
type ActorsLoadedMsg struct {
	Gen    int64
	Seq    uint64
	Actors []models.Actor
	Err    error
}

// ActorLoadedMsg is emitted when a single actor has been fetched
type ActorLoadedMsg struct {
	Gen   int64
	Actor *models.Actor
	Err   error
}

// ActorCreatedMsg is emitted when the create form has been submitted
type ActorCreatedMsg struct {
	Actor *models.Actor
	Err   error
}

// ForkedMsg is emitted when a fork request completes
type ForkedMsg struct {
	Actor *models.Actor
	Err   error
}

// LeadHistoryMsg is emitted when a lead's chat history has been fetched
type LeadHistoryMsg struct {
	LeadID  string
	History []models.ChatMessage
	Err     error
}

// LeadReplyMsg is emitted when the assistant answers a lead question
type LeadReplyMsg struct {
	LeadID string
	Reply  string
	Err    error
}

// OutreachMsg is emitted when an outreach template has been generated
type OutreachMsg struct {
	LeadID   string
	Channel  string
	Template string
	Err      error
}
